package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/locallibrary/catalog/internal/entities"
	"github.com/locallibrary/catalog/internal/middleware"
)

const contextKeySessions = "sessions"

// sessionContext exposes the session manager to render and setFlash.
func sessionContext(sm *middleware.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeySessions, sm)
		c.Next()
	}
}

func sessions(c *gin.Context) *middleware.SessionManager {
	sm, _ := c.Get(contextKeySessions)
	m, _ := sm.(*middleware.SessionManager)
	return m
}

// setFlash queues a message for the next page. It is a no-op without sessions.
func setFlash(c *gin.Context, message string) {
	if sm := sessions(c); sm != nil {
		sm.SetFlash(c.Request.Context(), message)
	}
}

// render executes a view with the data every page needs: the CSRF token
// and any pending flash message.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CSRFFieldName"] = middleware.CSRFFieldName
	data["CSRFToken"] = middleware.CSRFToken(c)
	if sm := sessions(c); sm != nil {
		if flash := sm.PopFlash(c.Request.Context()); flash != "" {
			data["Flash"] = flash
		}
	}
	c.HTML(status, name, data)
}

// redirect answers a successful form post.
func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// parseIDParam reads the :id path parameter. Anything that is not a
// well-formed identifier cannot name a record, so it is reported as 404.
func parseIDParam(c *gin.Context, what string) (string, bool) {
	id := c.Param("id")
	if !entities.IsValidID(id) {
		fail(c, errNotFound(what))
		return "", false
	}
	return id, true
}
