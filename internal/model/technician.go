package model

import (
	"time"

	"github.com/google/uuid"
)

// Technician is an administrative record; tickets reference it weakly.
type Technician struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	PhoneNumber string
	Specialty   string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
