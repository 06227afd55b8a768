package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/locallibrary/catalog/internal/audit"
	"github.com/locallibrary/catalog/internal/database"
	auditRepo "github.com/locallibrary/catalog/internal/database/audit"
	"github.com/locallibrary/catalog/internal/database/authors"
	"github.com/locallibrary/catalog/internal/database/books"
	"github.com/locallibrary/catalog/internal/database/genres"
	"github.com/locallibrary/catalog/internal/database/instances"
	"github.com/locallibrary/catalog/internal/entities"
)

type testApp struct {
	router    *gin.Engine
	db        *database.Database
	genres    *genres.Repository
	authors   *authors.Repository
	books     *books.Repository
	instances *instances.Repository
	audit     *audit.Service
}

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "catalog.db"), database.WithLogLevel("silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestApp builds the full router over a fresh database. cfgFn may
// adjust the configuration before the router is created.
func newTestApp(t *testing.T, cfgFn ...func(*RouterConfig)) *testApp {
	t.Helper()
	db := setupTestDB(t)

	app := &testApp{
		db:        db,
		genres:    genres.NewRepository(db.DB),
		authors:   authors.NewRepository(db.DB),
		books:     books.NewRepository(db.DB),
		instances: instances.NewRepository(db.DB),
		audit:     audit.NewService(auditRepo.NewRepository(db.DB)),
	}
	t.Cleanup(app.audit.Wait)

	cfg := RouterConfig{
		Genres:    app.genres,
		Authors:   app.authors,
		Books:     app.books,
		Instances: app.instances,
		Database:  db,
		Audit:     app.audit,
		Version:   "test",
	}
	for _, fn := range cfgFn {
		fn(&cfg)
	}
	app.router = NewRouter(cfg)
	return app
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) seedGenre(t *testing.T, name string) *entities.Genre {
	t.Helper()
	genre := &entities.Genre{Name: name}
	require.NoError(t, a.genres.Create(context.Background(), genre))
	return genre
}

func (a *testApp) seedAuthor(t *testing.T, first, family string) *entities.Author {
	t.Helper()
	author := &entities.Author{FirstName: first, FamilyName: family}
	require.NoError(t, a.authors.Create(context.Background(), author))
	return author
}

func (a *testApp) seedBook(t *testing.T, title string, author *entities.Author, genres ...*entities.Genre) *entities.Book {
	t.Helper()
	book := &entities.Book{
		Title:    title,
		AuthorID: author.ID,
		Summary:  "Summary of " + title,
		ISBN:     "9780000000000",
	}
	for _, g := range genres {
		book.Genres = append(book.Genres, entities.Genre{ID: g.ID})
	}
	require.NoError(t, a.books.Create(context.Background(), book))
	return book
}

func (a *testApp) seedInstance(t *testing.T, book *entities.Book, imprint string, status entities.InstanceStatus) *entities.BookInstance {
	t.Helper()
	instance := &entities.BookInstance{
		BookID:  book.ID,
		Imprint: imprint,
		Status:  status,
		DueBack: time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, a.instances.Create(context.Background(), instance))
	return instance
}
