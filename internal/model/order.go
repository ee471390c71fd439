package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle status of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Valid reports whether s is one of the known order statuses.
// No transition graph is imposed: any status may follow any other by
// direct admin action.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusRejected, OrderStatusDelivered:
		return true
	}
	return false
}

// DeliveryAddress is embedded into Order; every field is required.
type DeliveryAddress struct {
	Street  string `json:"street" gorm:"size:255;not null"`
	City    string `json:"city" gorm:"size:255;not null"`
	State   string `json:"state" gorm:"size:255;not null"`
	ZipCode string `json:"zip_code" gorm:"size:32;not null"`
	Country string `json:"country" gorm:"size:64;not null"`
}

// OrderItem is a single line item of an order.
type OrderItem struct {
	ID       uint            `json:"-" gorm:"primaryKey"`
	OrderID  uuid.UUID       `json:"-" gorm:"type:char(36);not null;index"`
	Name     string          `json:"name" gorm:"size:255;not null"`
	Quantity int             `json:"quantity" gorm:"not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
}

// Order represents a customer's request for items delivered to an address.
//
// TotalAmount is the client-computed sum of quantity*price per item and is
// stored as received: the server does not recompute it.
type Order struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(20,2);not null"`
	DeliveryAddress DeliveryAddress `json:"delivery_address" gorm:"embedded;embeddedPrefix:address_"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	AdminNotes      string          `json:"admin_notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relations
	User User `json:"user" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
