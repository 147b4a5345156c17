package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock log actions. Direction compatibility and voidability are fixed sets
// consulted by the stock adjustment engine.
const (
	ActionCreated      = "CREATED"
	ActionRestock      = "RESTOCK"
	ActionSaleOffline  = "SALE_OFFLINE"
	ActionAdjustDamage = "ADJUST_DAMAGE"
	ActionAdjustLost   = "ADJUST_LOST"
	ActionAdjustOpname = "ADJUST_OPNAME"
	ActionAdjustFound  = "ADJUST_FOUND"
	ActionDeleted      = "DELETED"
	ActionRestored     = "RESTORED"
	ActionVoidLog      = "VOID_LOG"
)

// IncreaseActions are the only actions valid when the new stock is higher
// than the current stock.
var IncreaseActions = map[string]bool{
	ActionRestock:     true,
	ActionAdjustFound: true,
}

// DecreaseActions are the only actions valid when the new stock is lower
// than the current stock.
var DecreaseActions = map[string]bool{
	ActionSaleOffline:  true,
	ActionAdjustDamage: true,
	ActionAdjustLost:   true,
	ActionAdjustOpname: true,
}

// VoidableActions lists the actions whose logs can be reversed. Lifecycle
// rows (CREATED/DELETED/RESTORED) and VOID_LOG itself are not reversible.
var VoidableActions = map[string]bool{
	ActionSaleOffline:  true,
	ActionAdjustDamage: true,
	ActionAdjustLost:   true,
	ActionRestock:      true,
}

// ProductLog records every stock change on a product. Rows are append-only:
// a log is never deleted or rewritten, only flagged IsVoided when an OWNER
// reverses it through a compensating VOID_LOG row.
type ProductLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	// UserID attributes the action; weak reference, nil when the actor
	// account was removed.
	UserID         *uuid.UUID       `gorm:"type:uuid"`
	Action         string           `gorm:"type:varchar(20);not null"`
	QuantityChange int              `gorm:"not null"` // positive = stock increase, negative = decrease
	TotalRevenue   *decimal.Decimal `gorm:"type:decimal(14,2)"`
	TotalProfit    *decimal.Decimal `gorm:"type:decimal(14,2)"`
	Description    string
	IsVoided       bool `gorm:"not null;default:false"`
	CreatedAt      time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
	User    *User    `gorm:"foreignKey:UserID"`
}

func (ProductLog) TableName() string { return "product_logs" }
