// Package genres provides database operations for catalog genres.
package genres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/locallibrary/catalog/internal/database"
	"github.com/locallibrary/catalog/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every genre sorted by name.
func (r *Repository) List(ctx context.Context) ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error
	return genres, err
}

// GetByID returns the genre with the given id or database.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Genre, error) {
	var genre entities.Genre
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// FindByName returns the genre with exactly this name or database.ErrNotFound.
func (r *Repository) FindByName(ctx context.Context, name string) (*entities.Genre, error) {
	var genre entities.Genre
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// FindByIDs returns the genres matching ids. Unknown ids are reported as a
// *database.MissingReferenceError.
func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]entities.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var genres []entities.Genre
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, &database.MissingReferenceError{Entity: "genre", ID: id}
		}
	}
	return genres, nil
}

// Create inserts a new genre. A name collision returns database.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, genre *entities.Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		if database.IsDuplicate(err) {
			return fmt.Errorf("genre %q: %w", genre.Name, database.ErrDuplicate)
		}
		return err
	}
	return nil
}

// Update overwrites the stored genre that has genre.ID.
func (r *Repository) Update(ctx context.Context, genre *entities.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Genre
		if err := tx.Where("id = ?", genre.ID).First(&existing).Error; err != nil {
			return err
		}
		existing.Name = genre.Name
		if err := tx.Save(&existing).Error; err != nil {
			if database.IsDuplicate(err) {
				return fmt.Errorf("genre %q: %w", genre.Name, database.ErrDuplicate)
			}
			return err
		}
		*genre = existing
		return nil
	})
}

// Delete removes the genre unless a book still references it, in which case
// database.ErrInUse is returned and nothing changes.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Table("book_genres").Where("genre_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("count genre references: %w", err)
		}
		if refs > 0 {
			return database.ErrInUse
		}
		result := tx.Where("id = ?", id).Delete(&entities.Genre{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}

// Count returns the number of genres.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Genre{}).Count(&count).Error
	return count, err
}
