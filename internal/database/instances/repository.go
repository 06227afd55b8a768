// Package instances provides database operations for book instances, the
// physical copies of a book held by the library.
package instances

import (
	"context"

	"gorm.io/gorm"

	"github.com/locallibrary/catalog/internal/database"
	"github.com/locallibrary/catalog/internal/entities"
)

// Repository handles all book instance database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new book instances repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every instance with its book populated.
func (r *Repository) List(ctx context.Context) ([]entities.BookInstance, error) {
	var instances []entities.BookInstance
	err := r.db.WithContext(ctx).Preload("Book").Order("created_at ASC").Find(&instances).Error
	return instances, err
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.BookInstance, error) {
	var instance entities.BookInstance
	if err := r.db.WithContext(ctx).Preload("Book").Where("id = ?", id).First(&instance).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

// ListByBook returns the copies of a book.
func (r *Repository) ListByBook(ctx context.Context, bookID string) ([]entities.BookInstance, error) {
	var instances []entities.BookInstance
	err := r.db.WithContext(ctx).Where("book_id = ?", bookID).Order("created_at ASC").Find(&instances).Error
	return instances, err
}

// Create inserts the instance. The referenced book must exist.
func (r *Repository) Create(ctx context.Context, instance *entities.BookInstance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.RequireExists(tx, &entities.Book{}, "book", instance.BookID); err != nil {
			return err
		}
		return tx.Omit("Book").Create(instance).Error
	})
}

// Update overwrites the stored instance that has instance.ID.
func (r *Repository) Update(ctx context.Context, instance *entities.BookInstance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.BookInstance
		if err := tx.Where("id = ?", instance.ID).First(&existing).Error; err != nil {
			return err
		}
		if err := database.RequireExists(tx, &entities.Book{}, "book", instance.BookID); err != nil {
			return err
		}

		existing.BookID = instance.BookID
		existing.Imprint = instance.Imprint
		existing.Status = instance.Status
		existing.DueBack = instance.DueBack
		if err := tx.Omit("Book").Save(&existing).Error; err != nil {
			return err
		}
		*instance = existing
		return nil
	})
}

// Delete removes the instance. Nothing references instances so no guard applies.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.BookInstance{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.BookInstance{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of instances in the given status.
func (r *Repository) CountByStatus(ctx context.Context, status entities.InstanceStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.BookInstance{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
