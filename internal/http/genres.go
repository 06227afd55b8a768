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

type GenreController struct {
	genres GenreStore
	books  BookStore
	audit  *audit.Service
}

func NewGenreController(genres GenreStore, books BookStore, auditService *audit.Service) *GenreController {
	return &GenreController{
		genres: genres,
		books:  books,
		audit:  auditService,
	}
}

func (gc *GenreController) RegisterRoutes(r gin.IRouter) {
	r.GET("/genres", gc.List)
	r.GET("/genre/create", gc.CreateForm)
	r.POST("/genre/create", gc.Create)
	r.GET("/genre/:id", gc.Detail)
	r.GET("/genre/:id/update", gc.UpdateForm)
	r.POST("/genre/:id/update", gc.Update)
	r.GET("/genre/:id/delete", gc.DeleteForm)
	r.POST("/genre/:id/delete", gc.Delete)
}

// List renders every genre sorted by name.
func (gc *GenreController) List(c *gin.Context) {
	genres, err := gc.genres.List(c.Request.Context())
	if err != nil {
		fail(c, fmt.Errorf("list genres: %w", err))
		return
	}
	render(c, http.StatusOK, "genre_list", gin.H{
		"Title":  "Genre List",
		"Genres": genres,
	})
}

// Detail renders a genre with the books filed under it.
func (gc *GenreController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "Genre")
	if !ok {
		return
	}
	genre, books, err := gc.loadWithBooks(c, id)
	if err != nil {
		failLookup(c, "Genre", err)
		return
	}
	render(c, http.StatusOK, "genre_detail", gin.H{
		"Title":      "Genre Detail",
		"Genre":      genre,
		"GenreBooks": books,
	})
}

func (gc *GenreController) CreateForm(c *gin.Context) {
	render(c, http.StatusOK, "genre_form", gin.H{
		"Title": "Create Genre",
		"Form":  forms.GenreForm{},
	})
}

// Create stores a new genre. A genre that already exists under the same
// name is reused instead of duplicated.
func (gc *GenreController) Create(c *gin.Context) {
	var form forms.GenreForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, &HTTPError{Status: http.StatusBadRequest, Message: "Invalid form submission", Err: err})
		return
	}
	form.Sanitize()

	if errs := form.Validate(); len(errs) > 0 {
		gc.renderForm(c, "Create Genre", form, errs)
		return
	}

	ctx := c.Request.Context()
	if existing, err := gc.genres.FindByName(ctx, form.Name); err == nil {
		redirect(c, existing.URL())
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		fail(c, fmt.Errorf("find genre by name: %w", err))
		return
	}

	genre := form.Genre()
	if err := gc.genres.Create(ctx, &genre); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			// Another request created it first.
			if existing, findErr := gc.genres.FindByName(ctx, form.Name); findErr == nil {
				redirect(c, existing.URL())
				return
			}
		}
		fail(c, fmt.Errorf("create genre: %w", err))
		return
	}

	gc.audit.LogCreate("genre", genre.ID, genre.Name, c.ClientIP())
	setFlash(c, "Genre created.")
	redirect(c, genre.URL())
}

func (gc *GenreController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c, "Genre")
	if !ok {
		return
	}
	genre, err := gc.genres.GetByID(c.Request.Context(), id)
	if err != nil {
		failLookup(c, "Genre", err)
		return
	}
	gc.renderForm(c, "Update Genre", forms.GenreFormFrom(*genre), nil)
}

// Update overwrites the genre named by the path. Identifiers in the body
// are ignored.
func (gc *GenreController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "Genre")
	if !ok {
		return
	}
	var form forms.GenreForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, &HTTPError{Status: http.StatusBadRequest, Message: "Invalid form submission", Err: err})
		return
	}
	form.Sanitize()

	if errs := form.Validate(); len(errs) > 0 {
		gc.renderForm(c, "Update Genre", form, errs)
		return
	}

	genre := form.Genre()
	genre.ID = id
	if err := gc.genres.Update(c.Request.Context(), &genre); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			var errs forms.Errors
			errs.Add("name", "A genre with this name already exists")
			gc.renderForm(c, "Update Genre", form, errs)
			return
		}
		failLookup(c, "Genre", err)
		return
	}

	gc.audit.LogUpdate("genre", genre.ID, genre.Name, c.ClientIP())
	setFlash(c, "Genre updated.")
	redirect(c, genre.URL())
}

func (gc *GenreController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c, "Genre")
	if !ok {
		return
	}
	genre, books, err := gc.loadWithBooks(c, id)
	if err != nil {
		failLookup(c, "Genre", err)
		return
	}
	gc.renderDelete(c, genre, books)
}

// Delete removes the genre unless books are still filed under it, in which
// case the confirmation page is shown again.
func (gc *GenreController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "Genre")
	if !ok {
		return
	}
	genre, books, err := gc.loadWithBooks(c, id)
	if err != nil {
		failLookup(c, "Genre", err)
		return
	}
	if len(books) > 0 {
		gc.renderDelete(c, genre, books)
		return
	}

	if err := gc.genres.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrInUse) {
			if genre, books, err = gc.loadWithBooks(c, id); err == nil {
				gc.renderDelete(c, genre, books)
				return
			}
		}
		failLookup(c, "Genre", err)
		return
	}

	gc.audit.LogDelete("genre", id, genre.Name, c.ClientIP())
	setFlash(c, "Genre deleted.")
	redirect(c, "/catalog/genres")
}

// loadWithBooks fetches the genre and its books concurrently.
func (gc *GenreController) loadWithBooks(c *gin.Context, id string) (*entities.Genre, []entities.Book, error) {
	var (
		genre *entities.Genre
		books []entities.Book
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		genre, err = gc.genres.GetByID(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = gc.books.ListByGenre(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return genre, books, nil
}

func (gc *GenreController) renderForm(c *gin.Context, title string, form forms.GenreForm, errs forms.Errors) {
	render(c, http.StatusOK, "genre_form", gin.H{
		"Title":  title,
		"Form":   form,
		"Errors": errs,
	})
}

func (gc *GenreController) renderDelete(c *gin.Context, genre *entities.Genre, books []entities.Book) {
	render(c, http.StatusOK, "genre_delete", gin.H{
		"Title":      "Delete Genre",
		"Genre":      genre,
		"GenreBooks": books,
	})
}
