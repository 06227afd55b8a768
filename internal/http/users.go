package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UsersController answers the placeholder user routes.
type UsersController struct{}

func NewUsersController() *UsersController {
	return &UsersController{}
}

func (uc *UsersController) RegisterRoutes(r gin.IRouter) {
	r.GET("", uc.List)
	r.GET("/", uc.List)
	r.GET("/cool", uc.Cool)
}

func (uc *UsersController) List(c *gin.Context) {
	c.String(http.StatusOK, "respond with a resource")
}

func (uc *UsersController) Cool(c *gin.Context) {
	c.String(http.StatusOK, "You’re so cool, user!")
}
