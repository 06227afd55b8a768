package forms

import "github.com/locallibrary/catalog/internal/entities"

type BookForm struct {
	Title   string   `form:"title" validate:"required" msg:"Title must not be empty."`
	Author  string   `form:"author" validate:"required" msg:"Author must not be empty."`
	Summary string   `form:"summary" validate:"required" msg:"Summary must not be empty."`
	ISBN    string   `form:"isbn" validate:"required" msg:"ISBN must not be empty."`
	Genres  []string `form:"genre"`
}

func BookFormFrom(b entities.Book) BookForm {
	f := BookForm{
		Title:   b.Title,
		Author:  b.AuthorID,
		Summary: b.Summary,
		ISBN:    b.ISBN,
	}
	for _, g := range b.Genres {
		f.Genres = append(f.Genres, g.ID)
	}
	return f
}

func (f *BookForm) Sanitize() {
	f.Title = Sanitize(f.Title)
	f.Author = Sanitize(f.Author)
	f.Summary = Sanitize(f.Summary)
	f.ISBN = Sanitize(f.ISBN)

	genres := make([]string, 0, len(f.Genres))
	for _, id := range f.Genres {
		if id = Sanitize(id); id != "" {
			genres = append(genres, id)
		}
	}
	f.Genres = genres
}

func (f BookForm) Validate() Errors {
	return Validate(f)
}

// HasGenre reports whether the genre checkbox was ticked.
func (f BookForm) HasGenre(id string) bool {
	for _, g := range f.Genres {
		if g == id {
			return true
		}
	}
	return false
}

// Book builds an entity whose Genres carry only identifiers.
func (f BookForm) Book() entities.Book {
	book := entities.Book{
		Title:    f.Title,
		AuthorID: f.Author,
		Summary:  f.Summary,
		ISBN:     f.ISBN,
	}
	for _, id := range f.Genres {
		book.Genres = append(book.Genres, entities.Genre{ID: id})
	}
	return book
}
