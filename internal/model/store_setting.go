package model

import "time"

// StoreSetting is a singleton row (ID is always 1), created lazily on the
// first upsert.
type StoreSetting struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Address   string
	Phone     string
	Email     string
	LogoURL   *string
	UpdatedAt time.Time
}

func (StoreSetting) TableName() string { return "store_settings" }
