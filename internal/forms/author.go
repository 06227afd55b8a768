package forms

import (
	"strings"
	"time"

	"github.com/locallibrary/catalog/internal/entities"
)

type AuthorForm struct {
	FirstName   string `form:"first_name" validate:"required,max=100" msg:"First name must be specified." msg_max:"First name must be at most 100 characters."`
	FamilyName  string `form:"family_name" validate:"required,max=100" msg:"Family name must be specified." msg_max:"Family name must be at most 100 characters."`
	DateOfBirth string `form:"date_of_birth" validate:"omitempty,datetime=2006-01-02" msg:"Invalid date of birth"`
	DateOfDeath string `form:"date_of_death" validate:"omitempty,datetime=2006-01-02" msg:"Invalid date of death"`
}

func AuthorFormFrom(a entities.Author) AuthorForm {
	return AuthorForm{
		FirstName:   a.FirstName,
		FamilyName:  a.FamilyName,
		DateOfBirth: a.DateOfBirthFormatted(),
		DateOfDeath: a.DateOfDeathFormatted(),
	}
}

func (f *AuthorForm) Sanitize() {
	f.FirstName = Sanitize(f.FirstName)
	f.FamilyName = Sanitize(f.FamilyName)
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	f.DateOfDeath = strings.TrimSpace(f.DateOfDeath)
}

// Validate also rejects a date of death earlier than the date of birth.
func (f AuthorForm) Validate() Errors {
	errs := Validate(f)
	if errs.Has("date_of_birth") || errs.Has("date_of_death") {
		return errs
	}
	born, died := parseDate(f.DateOfBirth), parseDate(f.DateOfDeath)
	if born != nil && died != nil && died.Before(*born) {
		errs.Add("date_of_death", "Date of death must not be before date of birth")
	}
	return errs
}

func (f AuthorForm) Author() entities.Author {
	return entities.Author{
		FirstName:   f.FirstName,
		FamilyName:  f.FamilyName,
		DateOfBirth: parseDate(f.DateOfBirth),
		DateOfDeath: parseDate(f.DateOfDeath),
	}
}

// parseDate returns nil for empty or malformed input; Validate reports the latter.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(entities.ISODateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
