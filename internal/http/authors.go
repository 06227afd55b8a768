package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/locallibrary/catalog/internal/audit"
	"github.com/locallibrary/catalog/internal/database"
	"github.com/locallibrary/catalog/internal/entities"
	"github.com/locallibrary/catalog/internal/forms"
)

type AuthorController struct {
	authors AuthorStore
	books   BookStore
	audit   *audit.Service
}

func NewAuthorController(authors AuthorStore, books BookStore, auditService *audit.Service) *AuthorController {
	return &AuthorController{
		authors: authors,
		books:   books,
		audit:   auditService,
	}
}

func (ac *AuthorController) RegisterRoutes(r gin.IRouter) {
	r.GET("/authors", ac.List)
	r.GET("/author/create", ac.CreateForm)
	r.POST("/author/create", ac.Create)
	r.GET("/author/:id", ac.Detail)
	r.GET("/author/:id/update", ac.UpdateForm)
	r.POST("/author/:id/update", ac.Update)
	r.GET("/author/:id/delete", ac.DeleteForm)
	r.POST("/author/:id/delete", ac.Delete)
}

func (ac *AuthorController) List(c *gin.Context) {
	authors, err := ac.authors.List(c.Request.Context())
	if err != nil {
		fail(c, fmt.Errorf("list authors: %w", err))
		return
	}
	render(c, http.StatusOK, "author_list", gin.H{
		"Title":   "Author List",
		"Authors": authors,
	})
}

func (ac *AuthorController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "Author")
	if !ok {
		return
	}
	author, books, err := ac.loadWithBooks(c, id)
	if err != nil {
		failLookup(c, "Author", err)
		return
	}
	render(c, http.StatusOK, "author_detail", gin.H{
		"Title":       "Author Detail",
		"Author":      author,
		"AuthorBooks": books,
	})
}

func (ac *AuthorController) CreateForm(c *gin.Context) {
	ac.renderForm(c, "Create Author", forms.AuthorForm{}, nil)
}

func (ac *AuthorController) Create(c *gin.Context) {
	form, ok := bindAuthorForm(c)
	if !ok {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		ac.renderForm(c, "Create Author", form, errs)
		return
	}

	author := form.Author()
	if err := ac.authors.Create(c.Request.Context(), &author); err != nil {
		fail(c, fmt.Errorf("create author: %w", err))
		return
	}

	ac.audit.LogCreate("author", author.ID, author.Name(), c.ClientIP())
	setFlash(c, "Author created.")
	redirect(c, author.URL())
}

func (ac *AuthorController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c, "Author")
	if !ok {
		return
	}
	author, err := ac.authors.GetByID(c.Request.Context(), id)
	if err != nil {
		failLookup(c, "Author", err)
		return
	}
	ac.renderForm(c, "Update Author", forms.AuthorFormFrom(*author), nil)
}

func (ac *AuthorController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "Author")
	if !ok {
		return
	}
	form, ok := bindAuthorForm(c)
	if !ok {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		ac.renderForm(c, "Update Author", form, errs)
		return
	}

	author := form.Author()
	author.ID = id
	if err := ac.authors.Update(c.Request.Context(), &author); err != nil {
		failLookup(c, "Author", err)
		return
	}

	ac.audit.LogUpdate("author", author.ID, author.Name(), c.ClientIP())
	setFlash(c, "Author updated.")
	redirect(c, author.URL())
}

func (ac *AuthorController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c, "Author")
	if !ok {
		return
	}
	author, books, err := ac.loadWithBooks(c, id)
	if err != nil {
		failLookup(c, "Author", err)
		return
	}
	ac.renderDelete(c, author, books)
}

// Delete removes the author unless books still credit them.
func (ac *AuthorController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "Author")
	if !ok {
		return
	}
	author, books, err := ac.loadWithBooks(c, id)
	if err != nil {
		failLookup(c, "Author", err)
		return
	}
	if len(books) > 0 {
		ac.renderDelete(c, author, books)
		return
	}

	if err := ac.authors.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrInUse) {
			if author, books, err = ac.loadWithBooks(c, id); err == nil {
				ac.renderDelete(c, author, books)
				return
			}
		}
		failLookup(c, "Author", err)
		return
	}

	ac.audit.LogDelete("author", id, author.Name(), c.ClientIP())
	setFlash(c, "Author deleted.")
	redirect(c, "/catalog/authors")
}

func bindAuthorForm(c *gin.Context) (forms.AuthorForm, bool) {
	var form forms.AuthorForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, &HTTPError{Status: http.StatusBadRequest, Message: "Invalid form submission", Err: err})
		return form, false
	}
	form.Sanitize()
	return form, true
}

func (ac *AuthorController) loadWithBooks(c *gin.Context, id string) (*entities.Author, []entities.Book, error) {
	var (
		author *entities.Author
		books  []entities.Book
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		author, err = ac.authors.GetByID(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = ac.books.ListByAuthor(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return author, books, nil
}

func (ac *AuthorController) renderForm(c *gin.Context, title string, form forms.AuthorForm, errs forms.Errors) {
	render(c, http.StatusOK, "author_form", gin.H{
		"Title":  title,
		"Form":   form,
		"Errors": errs,
	})
}

func (ac *AuthorController) renderDelete(c *gin.Context, author *entities.Author, books []entities.Book) {
	render(c, http.StatusOK, "author_delete", gin.H{
		"Title":       "Delete Author",
		"Author":      author,
		"AuthorBooks": books,
	})
}
