package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"orderdesk/internal/cache"
	"orderdesk/internal/errors"
	"orderdesk/internal/metrics"
	"orderdesk/internal/model"
	"orderdesk/internal/repository"
)

const ownOrdersCacheTTL = 1 * time.Minute

// OrderService handles order creation, ownership-scoped retrieval, and
// administrative status transitions.
type OrderService interface {
	Create(ctx context.Context, ownerID uint, items []model.OrderItem, address model.DeliveryAddress, totalAmount decimal.Decimal) (*model.Order, error)
	ListOwn(ctx context.Context, ownerID uint) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus, notes string) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	eventRepo repository.OrderEventRepository
	cache     *cache.Client
	validator *OrderValidator
	// Channel for async audit logging
	eventChannel chan model.OrderEvent
}

// NewOrderService creates a new order service and starts its audit worker.
func NewOrderService(
	orderRepo repository.OrderRepository,
	eventRepo repository.OrderEventRepository,
	cache *cache.Client,
) OrderService {
	service := &orderService{
		orderRepo:    orderRepo,
		eventRepo:    eventRepo,
		cache:        cache,
		validator:    NewOrderValidator(),
		eventChannel: make(chan model.OrderEvent, 100),
	}

	// Start async audit worker
	go service.eventWorker(context.Background())

	return service
}

// eventWorker persists order events asynchronously in small batches.
func (s *orderService) eventWorker(ctx context.Context) {
	batch := make([]model.OrderEvent, 0, 10)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-s.eventChannel:
			if !ok {
				// Channel closed, flush remaining events
				if len(batch) > 0 {
					_ = s.eventRepo.CreateBatch(ctx, batch)
				}
				return
			}
			batch = append(batch, event)
			if len(batch) >= 10 {
				_ = s.eventRepo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				_ = s.eventRepo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ctx.Done():
			return
		}
	}
}

// logEvent records a status change asynchronously, falling back to a
// synchronous write when the channel is full.
func (s *orderService) logEvent(ctx context.Context, orderID uuid.UUID, status model.OrderStatus, notes string) {
	event := model.OrderEvent{
		OrderID: orderID,
		Status:  status,
		Notes:   notes,
	}

	select {
	case s.eventChannel <- event:
	default:
		_ = s.eventRepo.Create(ctx, &event)
	}
}

func (s *orderService) ownOrdersCacheKey(ownerID uint) string {
	return fmt.Sprintf("orders:user:%d", ownerID)
}

// Create stores a new pending order owned by ownerID.
//
// totalAmount is accepted from the client without recomputation from the
// items; see the model documentation for the rationale.
func (s *orderService) Create(ctx context.Context, ownerID uint, items []model.OrderItem, address model.DeliveryAddress, totalAmount decimal.Decimal) (*model.Order, error) {
	if err := s.validator.ValidateItems(items); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateAddress(address); err != nil {
		return nil, err
	}

	order := &model.Order{
		UserID:          ownerID,
		Items:           items,
		TotalAmount:     totalAmount,
		DeliveryAddress: address,
		Status:          model.OrderStatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	_ = s.cache.Delete(ctx, s.ownOrdersCacheKey(ownerID))
	metrics.OrdersCreated.Inc()
	s.logEvent(ctx, order.ID, model.OrderStatusPending, "")

	// Reload with the owner attached for the denormalized display join.
	created, err := s.orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	return created, nil
}

// ListOwn returns the caller's orders, newest first. Results are cached
// briefly per owner and invalidated on every mutation.
func (s *orderService) ListOwn(ctx context.Context, ownerID uint) ([]model.Order, error) {
	key := s.ownOrdersCacheKey(ownerID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.Order
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	orders, err := s.orderRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(orders); err == nil {
		_ = s.cache.Set(ctx, key, payload, ownOrdersCacheTTL)
	}
	return orders, nil
}

// ListAll returns every order with its owner attached, newest first.
// Role enforcement happens in the auth gate, not here.
func (s *orderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// UpdateStatus sets the order's status unconditionally: no transition graph
// is imposed, so any status may follow any other. Non-empty notes overwrite
// AdminNotes; empty notes leave them unchanged. There is no explicit
// "clear notes" path.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus, notes string) (*model.Order, error) {
	if !status.Valid() {
		return nil, errors.ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	order.Status = status
	if notes != "" {
		order.AdminNotes = notes
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	_ = s.cache.Delete(ctx, s.ownOrdersCacheKey(order.UserID))
	metrics.StatusUpdates.WithLabelValues(string(status)).Inc()
	s.logEvent(ctx, order.ID, status, notes)

	return order, nil
}
