package model

import (
	"time"

	"github.com/google/uuid"
)

// Ticket log actions.
const (
	ServiceActionReceived      = "RECEIVED"
	ServiceActionUpdated       = "UPDATED"
	ServiceActionStatusChanged = "STATUS_CHANGED"
	ServiceActionDeleted       = "DELETED"
)

// ServiceLog records every mutation of a repair ticket. Same append-only
// discipline as ProductLog, but intentionally without a void mechanism:
// ticket changes do not move stock, so there is nothing to compensate.
type ServiceLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ServiceID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID      *uuid.UUID `gorm:"type:uuid"`
	Action      string     `gorm:"type:varchar(20);not null"`
	Description string
	CreatedAt   time.Time

	User *User `gorm:"foreignKey:UserID"`
}

func (ServiceLog) TableName() string { return "service_logs" }
