package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no record matches the requested identifier.
	ErrNotFound = gorm.ErrRecordNotFound

	// ErrInUse is returned when a delete is refused because other records
	// still reference the target.
	ErrInUse = errors.New("record is still referenced")

	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = gorm.ErrDuplicatedKey

	// ErrMissingReference is returned when a write points at a record that does not exist.
	ErrMissingReference = errors.New("referenced record does not exist")
)

// MissingReferenceError names the entity a write referenced but could not find.
type MissingReferenceError struct {
	Entity string
	ID     string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Entity, e.ID, ErrMissingReference)
}

func (e *MissingReferenceError) Is(target error) bool {
	return target == ErrMissingReference
}

// RequireExists returns a *MissingReferenceError when no row of model has the given id.
func RequireExists(tx *gorm.DB, model any, entity, id string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s reference: %w", entity, err)
	}
	if count == 0 {
		return &MissingReferenceError{Entity: entity, ID: id}
	}
	return nil
}

// IsDuplicate reports whether err is a unique constraint violation.
// The string check covers drivers that do not translate errors.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
