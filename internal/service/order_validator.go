package service

import (
	"github.com/shopspring/decimal"

	"orderdesk/internal/errors"
	"orderdesk/internal/model"
)

// OrderValidator validates order submissions.
//
// It does not check that the client-supplied total matches the sum of the
// line items; the total is stored as received.
type OrderValidator struct{}

// NewOrderValidator creates a new order validator.
func NewOrderValidator() *OrderValidator {
	return &OrderValidator{}
}

// ValidateItems checks the line items: the sequence must be non-empty, every
// quantity at least 1 and every unit price non-negative.
func (v *OrderValidator) ValidateItems(items []model.OrderItem) error {
	if len(items) == 0 {
		return errors.ErrEmptyItems
	}
	for _, item := range items {
		if item.Name == "" {
			return errors.ErrInvalidItem
		}
		if item.Quantity < 1 {
			return errors.ErrInvalidItem
		}
		if item.Price.LessThan(decimal.Zero) {
			return errors.ErrInvalidItem
		}
	}
	return nil
}

// ValidateAddress checks that every delivery address field is present.
func (v *OrderValidator) ValidateAddress(addr model.DeliveryAddress) error {
	if addr.Street == "" || addr.City == "" || addr.State == "" ||
		addr.ZipCode == "" || addr.Country == "" {
		return errors.ErrInvalidAddress
	}
	return nil
}
