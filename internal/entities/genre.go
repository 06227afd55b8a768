package entities

import (
	"time"

	"gorm.io/gorm"
)

// Genre names are unique. The service checks for an existing name before
// inserting and the unique index catches concurrent inserts.
type Genre struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Genre) TableName() string {
	return "genres"
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = NewID()
	}
	return nil
}

func (g Genre) URL() string {
	return "/catalog/genre/" + g.ID
}
