package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repair ticket statuses. PENDING is the initial state.
const (
	StatusPending  = "PENDING"
	StatusProcess  = "PROCESS"
	StatusFinished = "FINISHED"
	StatusTaken    = "TAKEN"
	StatusCanceled = "CANCELED"
)

// ServiceStatuses is the full set accepted by the update path.
var ServiceStatuses = map[string]bool{
	StatusPending:  true,
	StatusProcess:  true,
	StatusFinished: true,
	StatusTaken:    true,
	StatusCanceled: true,
}

// Service is a device-repair ticket. TotalPrice is always derived from the
// owned items minus the percentage discount, never set directly.
type Service struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code           string    `gorm:"uniqueIndex;not null"` // human-readable ticket code
	Brand          string    `gorm:"not null"`
	Model          string    `gorm:"not null"`
	CustomerName   string    `gorm:"not null"`
	PhoneNumber    string    `gorm:"not null"`
	CustomerEmail  *string
	Description    string
	TechnicianNote *string
	Status         string `gorm:"type:varchar(20);not null;default:'PENDING'"`
	// Discount is a whole percentage in [0,100].
	Discount     int             `gorm:"not null;default:0"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TechnicianID *uuid.UUID      `gorm:"type:uuid;index"`
	Active       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items      []ServiceItem `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
	Technician *Technician   `gorm:"foreignKey:TechnicianID"`
}

// ServiceItem is a line item owned by exactly one Service.
type ServiceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ServiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
