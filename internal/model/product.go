package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is an inventory item. Stock is mutated only through the stock
// adjustment engine (or the administrative update path), never directly.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"index;not null"`
	Brand        string    `gorm:"not null"`
	Manufacturer string
	Category     string          `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Stock is never negative; the engine rejects any mutation that would
	// drive it below zero instead of clamping.
	Stock     int `gorm:"not null;default:0"`
	ImageURL  *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
