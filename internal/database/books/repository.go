// Package books provides database operations for catalog books and their
// genre associations.
package books

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/locallibrary/catalog/internal/database"
	"github.com/locallibrary/catalog/internal/database/genres"
	"github.com/locallibrary/catalog/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every book with its author, sorted by title.
func (r *Repository) List(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Preload("Author").Order("title ASC").Find(&books).Error
	return books, err
}

// GetByID returns the book with its author and genres populated.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Genres", func(db *gorm.DB) *gorm.DB {
			return db.Order("genres.name ASC")
		}).
		Where("id = ?", id).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListByGenre returns the books tagged with the genre.
func (r *Repository) ListByGenre(ctx context.Context, genreID string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Joins("JOIN book_genres ON book_genres.book_id = books.id").
		Where("book_genres.genre_id = ?", genreID).
		Preload("Author").
		Order("books.title ASC").
		Find(&books).Error
	return books, err
}

// ListByAuthor returns the books written by the author.
func (r *Repository) ListByAuthor(ctx context.Context, authorID string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("title ASC").Find(&books).Error
	return books, err
}

// Create inserts the book and links it to book.Genres. The author and every
// genre must already exist.
func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireReferences(tx, book); err != nil {
			return err
		}
		return tx.Omit("Author", "Genres.*").Create(book).Error
	})
}

// Update overwrites the stored book that has book.ID and replaces its genres.
func (r *Repository) Update(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Book
		if err := tx.Where("id = ?", book.ID).First(&existing).Error; err != nil {
			return err
		}
		if err := requireReferences(tx, book); err != nil {
			return err
		}

		existing.Title = book.Title
		existing.AuthorID = book.AuthorID
		existing.Summary = book.Summary
		existing.ISBN = book.ISBN
		if err := tx.Omit(clause.Associations).Save(&existing).Error; err != nil {
			return err
		}

		assoc := tx.Model(&existing).Association("Genres")
		if len(book.Genres) == 0 {
			if err := assoc.Clear(); err != nil {
				return fmt.Errorf("clear genres: %w", err)
			}
		} else if err := assoc.Replace(book.Genres); err != nil {
			return fmt.Errorf("replace genres: %w", err)
		}

		existing.Genres = book.Genres
		*book = existing
		return nil
	})
}

// Delete removes the book and its genre links unless a copy of it still
// exists, in which case database.ErrInUse is returned.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&entities.BookInstance{}).Where("book_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("count book references: %w", err)
		}
		if refs > 0 {
			return database.ErrInUse
		}
		if err := tx.Exec("DELETE FROM book_genres WHERE book_id = ?", id).Error; err != nil {
			return fmt.Errorf("unlink genres: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&entities.Book{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// requireReferences checks the author and every genre in one query each.
// book.Genres is replaced by the stored genres, so repeated ids link once.
func requireReferences(tx *gorm.DB, book *entities.Book) error {
	if err := database.RequireExists(tx, &entities.Author{}, "author", book.AuthorID); err != nil {
		return err
	}
	if len(book.Genres) == 0 {
		return nil
	}
	ids := make([]string, 0, len(book.Genres))
	for _, g := range book.Genres {
		ids = append(ids, g.ID)
	}
	stored, err := genres.NewRepository(tx).FindByIDs(tx.Statement.Context, ids)
	if err != nil {
		return err
	}
	book.Genres = stored
	return nil
}
