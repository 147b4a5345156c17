package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles are explicit per-operation sets — OWNER is NOT an implicit superset
// of ADMIN. Each route declares exactly which roles it accepts.
const (
	RoleOwner      = "OWNER"
	RoleAdmin      = "ADMIN"
	RoleCustomer   = "CUSTOMER"
	RoleTechnician = "TECHNICIAN"
)

// User stores system accounts with role-based access.
// PasswordHash is nil for Google-only accounts.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        *string   `gorm:"uniqueIndex"`
	PasswordHash *string
	Role         string  `gorm:"type:varchar(20);not null"`
	GoogleID     *string `gorm:"uniqueIndex"`
	Active       bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
