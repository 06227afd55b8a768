package forms

import (
	"strings"
	"time"

	"github.com/locallibrary/catalog/internal/entities"
)

type BookInstanceForm struct {
	Book    string `form:"book" validate:"required" msg:"Book must be specified"`
	Imprint string `form:"imprint" validate:"required" msg:"Imprint must be specified"`
	Status  string `form:"status" validate:"omitempty,oneof=Available Maintenance Loaned Reserved" msg:"Invalid status"`
	DueBack string `form:"due_back" validate:"omitempty,datetime=2006-01-02" msg:"Invalid date"`
}

func BookInstanceFormFrom(bi entities.BookInstance) BookInstanceForm {
	return BookInstanceForm{
		Book:    bi.BookID,
		Imprint: bi.Imprint,
		Status:  string(bi.Status),
		DueBack: bi.DueBackFormatted(),
	}
}

func (f *BookInstanceForm) Sanitize() {
	f.Book = Sanitize(f.Book)
	f.Imprint = Sanitize(f.Imprint)
	f.Status = Sanitize(f.Status)
	f.DueBack = strings.TrimSpace(f.DueBack)
}

func (f BookInstanceForm) Validate() Errors {
	return Validate(f)
}

// Instance builds an entity, defaulting status to Maintenance and the due
// date to now when they were left blank.
func (f BookInstanceForm) Instance() entities.BookInstance {
	status := entities.InstanceStatus(f.Status)
	if status == "" {
		status = entities.InstanceStatusMaintenance
	}
	due := time.Now()
	if d := parseDate(f.DueBack); d != nil {
		due = *d
	}
	return entities.BookInstance{
		BookID:  f.Book,
		Imprint: f.Imprint,
		Status:  status,
		DueBack: due,
	}
}
