package entities

import (
	"time"

	"gorm.io/gorm"
)

// ISODateLayout is the date format used by form inputs and ISO renderings.
const ISODateLayout = "2006-01-02"

type Author struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	FirstName   string     `gorm:"size:100;not null" json:"first_name"`
	FamilyName  string     `gorm:"index;size:100;not null" json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	return nil
}

// Name returns the display name in "family, first" order.
func (a Author) Name() string {
	return a.FamilyName + ", " + a.FirstName
}

func (a Author) URL() string {
	return "/catalog/author/" + a.ID
}

func (a Author) DateOfBirthFormatted() string {
	return formatOptionalDate(a.DateOfBirth)
}

func (a Author) DateOfDeathFormatted() string {
	return formatOptionalDate(a.DateOfDeath)
}

// Lifespan joins the formatted birth and death dates with an en dash.
// Unknown dates render as empty strings on their side of the dash.
func (a Author) Lifespan() string {
	return a.DateOfBirthFormatted() + "–" + a.DateOfDeathFormatted()
}

func formatOptionalDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(ISODateLayout)
}
