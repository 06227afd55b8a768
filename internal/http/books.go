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

type BookController struct {
	books     BookStore
	authors   AuthorStore
	genres    GenreStore
	instances InstanceStore
	audit     *audit.Service
}

func NewBookController(books BookStore, authors AuthorStore, genres GenreStore, instances InstanceStore, auditService *audit.Service) *BookController {
	return &BookController{
		books:     books,
		authors:   authors,
		genres:    genres,
		instances: instances,
		audit:     auditService,
	}
}

func (bc *BookController) RegisterRoutes(r gin.IRouter) {
	r.GET("/books", bc.List)
	r.GET("/book/create", bc.CreateForm)
	r.POST("/book/create", bc.Create)
	r.GET("/book/:id", bc.Detail)
	r.GET("/book/:id/update", bc.UpdateForm)
	r.POST("/book/:id/update", bc.Update)
	r.GET("/book/:id/delete", bc.DeleteForm)
	r.POST("/book/:id/delete", bc.Delete)
}

func (bc *BookController) List(c *gin.Context) {
	books, err := bc.books.List(c.Request.Context())
	if err != nil {
		fail(c, fmt.Errorf("list books: %w", err))
		return
	}
	render(c, http.StatusOK, "book_list", gin.H{
		"Title": "Book List",
		"Books": books,
	})
}

// Detail renders a book with its author, genres and copies.
func (bc *BookController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "Book")
	if !ok {
		return
	}
	book, instances, err := bc.loadWithInstances(c, id)
	if err != nil {
		failLookup(c, "Book", err)
		return
	}
	render(c, http.StatusOK, "book_detail", gin.H{
		"Title":         book.Title,
		"Book":          book,
		"BookInstances": instances,
	})
}

func (bc *BookController) CreateForm(c *gin.Context) {
	bc.renderForm(c, "Create Book", forms.BookForm{}, nil)
}

func (bc *BookController) Create(c *gin.Context) {
	form, ok := bindBookForm(c)
	if !ok {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		bc.renderForm(c, "Create Book", form, errs)
		return
	}

	book := form.Book()
	if err := bc.books.Create(c.Request.Context(), &book); err != nil {
		if errs, ok := bookReferenceErrors(err); ok {
			bc.renderForm(c, "Create Book", form, errs)
			return
		}
		fail(c, fmt.Errorf("create book: %w", err))
		return
	}

	bc.audit.LogCreate("book", book.ID, book.Title, c.ClientIP())
	setFlash(c, "Book created.")
	redirect(c, book.URL())
}

func (bc *BookController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c, "Book")
	if !ok {
		return
	}
	book, err := bc.books.GetByID(c.Request.Context(), id)
	if err != nil {
		failLookup(c, "Book", err)
		return
	}
	bc.renderForm(c, "Update Book", forms.BookFormFrom(*book), nil)
}

// Update replaces the book named by the path, including its genre set.
func (bc *BookController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "Book")
	if !ok {
		return
	}
	form, ok := bindBookForm(c)
	if !ok {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		bc.renderForm(c, "Update Book", form, errs)
		return
	}

	book := form.Book()
	book.ID = id
	if err := bc.books.Update(c.Request.Context(), &book); err != nil {
		if errs, ok := bookReferenceErrors(err); ok {
			bc.renderForm(c, "Update Book", form, errs)
			return
		}
		failLookup(c, "Book", err)
		return
	}

	bc.audit.LogUpdate("book", book.ID, book.Title, c.ClientIP())
	setFlash(c, "Book updated.")
	redirect(c, book.URL())
}

func (bc *BookController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c, "Book")
	if !ok {
		return
	}
	book, instances, err := bc.loadWithInstances(c, id)
	if err != nil {
		failLookup(c, "Book", err)
		return
	}
	bc.renderDelete(c, book, instances)
}

// Delete removes the book unless copies of it still exist.
func (bc *BookController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "Book")
	if !ok {
		return
	}
	book, instances, err := bc.loadWithInstances(c, id)
	if err != nil {
		failLookup(c, "Book", err)
		return
	}
	if len(instances) > 0 {
		bc.renderDelete(c, book, instances)
		return
	}

	if err := bc.books.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrInUse) {
			if book, instances, err = bc.loadWithInstances(c, id); err == nil {
				bc.renderDelete(c, book, instances)
				return
			}
		}
		failLookup(c, "Book", err)
		return
	}

	bc.audit.LogDelete("book", id, book.Title, c.ClientIP())
	setFlash(c, "Book deleted.")
	redirect(c, "/catalog/books")
}

func bindBookForm(c *gin.Context) (forms.BookForm, bool) {
	var form forms.BookForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, &HTTPError{Status: http.StatusBadRequest, Message: "Invalid form submission", Err: err})
		return form, false
	}
	form.Sanitize()
	return form, true
}

// bookReferenceErrors turns a missing author or genre into a form error.
func bookReferenceErrors(err error) (forms.Errors, bool) {
	var missing *database.MissingReferenceError
	if !errors.As(err, &missing) {
		return nil, false
	}
	var errs forms.Errors
	switch missing.Entity {
	case "author":
		errs.Add("author", "Author not found")
	case "genre":
		errs.Add("genre", "Genre not found")
	default:
		return nil, false
	}
	return errs, true
}

func (bc *BookController) loadWithInstances(c *gin.Context, id string) (*entities.Book, []entities.BookInstance, error) {
	var (
		book      *entities.Book
		instances []entities.BookInstance
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		book, err = bc.books.GetByID(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		instances, err = bc.instances.ListByBook(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return book, instances, nil
}

// renderForm shows the book form with freshly loaded authors and genres.
func (bc *BookController) renderForm(c *gin.Context, title string, form forms.BookForm, errs forms.Errors) {
	var (
		authors []entities.Author
		genres  []entities.Genre
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		authors, err = bc.authors.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		genres, err = bc.genres.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		fail(c, fmt.Errorf("load book form options: %w", err))
		return
	}

	render(c, http.StatusOK, "book_form", gin.H{
		"Title":   title,
		"Form":    form,
		"Errors":  errs,
		"Authors": authors,
		"Genres":  genres,
	})
}

func (bc *BookController) renderDelete(c *gin.Context, book *entities.Book, instances []entities.BookInstance) {
	render(c, http.StatusOK, "book_delete", gin.H{
		"Title":         "Delete Book",
		"Book":          book,
		"BookInstances": instances,
	})
}
