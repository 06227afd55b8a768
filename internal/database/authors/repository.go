// Package authors provides database operations for catalog authors.
package authors

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/locallibrary/catalog/internal/database"
	"github.com/locallibrary/catalog/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every author sorted by family name, then first name.
func (r *Repository) List(ctx context.Context) ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.WithContext(ctx).Order("family_name ASC, first_name ASC").Find(&authors).Error
	return authors, err
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *Repository) Create(ctx context.Context, author *entities.Author) error {
	return r.db.WithContext(ctx).Create(author).Error
}

// Update overwrites the stored author that has author.ID. CreatedAt is kept.
func (r *Repository) Update(ctx context.Context, author *entities.Author) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Author
		if err := tx.Where("id = ?", author.ID).First(&existing).Error; err != nil {
			return err
		}
		existing.FirstName = author.FirstName
		existing.FamilyName = author.FamilyName
		existing.DateOfBirth = author.DateOfBirth
		existing.DateOfDeath = author.DateOfDeath
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*author = existing
		return nil
	})
}

// Delete removes the author unless a book still references it.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&entities.Book{}).Where("author_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("count author references: %w", err)
		}
		if refs > 0 {
			return database.ErrInUse
		}
		result := tx.Where("id = ?", id).Delete(&entities.Author{})
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
	err := r.db.WithContext(ctx).Model(&entities.Author{}).Count(&count).Error
	return count, err
}
