package entities

import "github.com/google/uuid"

// IDSize is the column width of the UUID primary keys used by catalog entities.
const IDSize = 36

// NewID returns a fresh identifier for a catalog entity.
func NewID() string {
	return uuid.NewString()
}

// IsValidID reports whether s looks like an identifier produced by NewID.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
