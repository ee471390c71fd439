package repository

import (
	"context"

	"gorm.io/gorm"

	"orderdesk/internal/model"
)

// OrderEventRepository defines audit log persistence operations.
type OrderEventRepository interface {
	Create(ctx context.Context, event *model.OrderEvent) error
	CreateBatch(ctx context.Context, events []model.OrderEvent) error
}

type orderEventRepository struct {
	db *gorm.DB
}

// NewOrderEventRepository creates a new order event repository.
func NewOrderEventRepository(db *gorm.DB) OrderEventRepository {
	return &orderEventRepository{db: db}
}

// Create appends a single audit log entry.
func (r *orderEventRepository) Create(ctx context.Context, event *model.OrderEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CreateBatch appends multiple audit log entries in a single statement.
func (r *orderEventRepository) CreateBatch(ctx context.Context, events []model.OrderEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(events, 100).Error
}
