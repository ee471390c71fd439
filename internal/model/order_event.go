package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderEvent is an append-only record of a status change on an order.
// Events are written asynchronously and are an operational audit trail;
// they are not exposed through the read API.
type OrderEvent struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	OrderID   uuid.UUID   `json:"order_id" gorm:"type:char(36);not null;index"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Notes     string      `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time   `json:"created_at"`
}
