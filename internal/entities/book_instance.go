package entities

import (
	"time"

	"gorm.io/gorm"
)

type InstanceStatus string

const (
	InstanceStatusAvailable   InstanceStatus = "Available"
	InstanceStatusMaintenance InstanceStatus = "Maintenance"
	InstanceStatusLoaned      InstanceStatus = "Loaned"
	InstanceStatusReserved    InstanceStatus = "Reserved"
)

// InstanceStatuses lists every status in the order forms present them.
var InstanceStatuses = []InstanceStatus{
	InstanceStatusMaintenance,
	InstanceStatusAvailable,
	InstanceStatusLoaned,
	InstanceStatusReserved,
}

// dueBackPrettyLayout renders dates as "Monday, 02 January 2006".
const dueBackPrettyLayout = "Monday, 02 January 2006"

// BookInstance is a physical copy of a Book that can be borrowed.
type BookInstance struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	BookID    string         `gorm:"index;size:36;not null" json:"book_id"`
	Book      Book           `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Imprint   string         `gorm:"size:512;not null" json:"imprint"`
	Status    InstanceStatus `gorm:"index;size:20;not null;default:'Maintenance'" json:"status"`
	DueBack   time.Time      `json:"due_back"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (BookInstance) TableName() string {
	return "book_instances"
}

// BeforeCreate assigns the identifier and applies the status and due date defaults.
func (bi *BookInstance) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == "" {
		bi.ID = NewID()
	}
	if bi.Status == "" {
		bi.Status = InstanceStatusMaintenance
	}
	if bi.DueBack.IsZero() {
		bi.DueBack = time.Now()
	}
	return nil
}

func (bi BookInstance) URL() string {
	return "/catalog/bookinstance/" + bi.ID
}

func (bi BookInstance) DueBackPretty() string {
	if bi.DueBack.IsZero() {
		return ""
	}
	return bi.DueBack.Format(dueBackPrettyLayout)
}

func (bi BookInstance) DueBackFormatted() string {
	if bi.DueBack.IsZero() {
		return ""
	}
	return bi.DueBack.Format(ISODateLayout)
}

// IsValidStatus reports whether s names one of the known instance statuses.
func IsValidStatus(s string) bool {
	for _, status := range InstanceStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}
