package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locallibrary/catalog/internal/database"
	"github.com/locallibrary/catalog/internal/entities"
)

func TestBookCreate(t *testing.T) {
	t.Run("valid book with genres", func(t *testing.T) {
		app := newTestApp(t)
		author := app.seedAuthor(t, "Patrick", "Rothfuss")
		fantasy := app.seedGenre(t, "Fantasy")
		epic := app.seedGenre(t, "Epic")

		w := app.postForm("/catalog/book/create", url.Values{
			"title":   {"The Wise Man's Fear"},
			"author":  {author.ID},
			"summary": {"Day two."},
			"isbn":    {"9788401352836"},
			"genre":   {fantasy.ID, epic.ID},
		})
		require.Equal(t, http.StatusFound, w.Code)

		books, err := app.books.List(context.Background())
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, books[0].URL(), w.Header().Get("Location"))

		stored, err := app.books.GetByID(context.Background(), books[0].ID)
		require.NoError(t, err)
		assert.Len(t, stored.Genres, 2)
		assert.Equal(t, "The Wise Man&#x27;s Fear", stored.Title)

		detail := app.get(stored.URL())
		require.Equal(t, http.StatusOK, detail.Code)
		body := detail.Body.String()
		assert.Contains(t, body, "The Wise Man&#39;s Fear")
		assert.Contains(t, body, "Rothfuss, Patrick")
		assert.Contains(t, body, "Fantasy")
		assert.Contains(t, body, "There are no copies of this book in the library.")
	})

	t.Run("missing fields re-render with selections kept", func(t *testing.T) {
		app := newTestApp(t)
		author := app.seedAuthor(t, "Patrick", "Rothfuss")
		fantasy := app.seedGenre(t, "Fantasy")

		w := app.postForm("/catalog/book/create", url.Values{
			"title":  {""},
			"author": {author.ID},
			"genre":  {fantasy.ID},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Title must not be empty.")
		assert.Contains(t, body, "Summary must not be empty.")
		assert.Contains(t, body, "ISBN must not be empty.")
		assert.Contains(t, body, `<option value="`+author.ID+`" selected>`)
		assert.Contains(t, body, `value="`+fantasy.ID+`" checked>`)
	})

	t.Run("unknown author is a form error", func(t *testing.T) {
		app := newTestApp(t)

		w := app.postForm("/catalog/book/create", url.Values{
			"title":   {"Orphan"},
			"author":  {entities.NewID()},
			"summary": {"No author."},
			"isbn":    {"1"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Author not found")
	})

	t.Run("unknown genre is a form error", func(t *testing.T) {
		app := newTestApp(t)
		author := app.seedAuthor(t, "Patrick", "Rothfuss")

		w := app.postForm("/catalog/book/create", url.Values{
			"title":   {"Orphan"},
			"author":  {author.ID},
			"summary": {"No genre."},
			"isbn":    {"1"},
			"genre":   {entities.NewID()},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Genre not found")
	})
}

func TestBookUpdate(t *testing.T) {
	t.Run("form marks current author and genres", func(t *testing.T) {
		app := newTestApp(t)
		author := app.seedAuthor(t, "Patrick", "Rothfuss")
		app.seedAuthor(t, "Ben", "Bova")
		fantasy := app.seedGenre(t, "Fantasy")
		poetry := app.seedGenre(t, "Poetry")
		book := app.seedBook(t, "The Name of the Wind", author, fantasy)

		w := app.get(book.URL() + "/update")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `<option value="`+author.ID+`" selected>`)
		assert.Contains(t, body, `value="`+fantasy.ID+`" checked>`)
		assert.Contains(t, body, `value="`+poetry.ID+`">`)
	})

	t.Run("replaces fields and genres", func(t *testing.T) {
		app := newTestApp(t)
		author := app.seedAuthor(t, "Patrick", "Rothfuss")
		fantasy := app.seedGenre(t, "Fantasy")
		poetry := app.seedGenre(t, "Poetry")
		book := app.seedBook(t, "The Name of the Wind", author, fantasy)

		w := app.postForm(book.URL()+"/update", url.Values{
			"title":   {"The Name of the Wind (10th anniversary)"},
			"author":  {author.ID},
			"summary": {"Day one."},
			"isbn":    {"9780756413712"},
			"genre":   {poetry.ID},
		})
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, book.URL(), w.Header().Get("Location"))

		stored, err := app.books.GetByID(context.Background(), book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Day one.", stored.Summary)
		require.Len(t, stored.Genres, 1)
		assert.Equal(t, poetry.ID, stored.Genres[0].ID)
	})
}

func TestBookDelete(t *testing.T) {
	t.Run("refused while copies exist", func(t *testing.T) {
		app := newTestApp(t)
		author := app.seedAuthor(t, "Patrick", "Rothfuss")
		book := app.seedBook(t, "The Name of the Wind", author)
		app.seedInstance(t, book, "Gollancz, 2011", entities.InstanceStatusAvailable)

		w := app.postForm(book.URL()+"/delete", url.Values{})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Delete the following copies")
		_, err := app.books.GetByID(context.Background(), book.ID)
		assert.NoError(t, err)
	})

	t.Run("removes a book without copies", func(t *testing.T) {
		app := newTestApp(t)
		author := app.seedAuthor(t, "Patrick", "Rothfuss")
		genre := app.seedGenre(t, "Fantasy")
		book := app.seedBook(t, "The Name of the Wind", author, genre)

		w := app.postForm(book.URL()+"/delete", url.Values{})

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/catalog/books", w.Header().Get("Location"))
		_, err := app.books.GetByID(context.Background(), book.ID)
		assert.True(t, errors.Is(err, database.ErrNotFound))

		// The genre is free to delete once the book is gone.
		w = app.postForm(genre.URL()+"/delete", url.Values{})
		assert.Equal(t, http.StatusFound, w.Code)
	})
}
