package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"orderdesk/internal/auth"
	"orderdesk/internal/config"
	"orderdesk/internal/handler"
	"orderdesk/internal/model"
	"orderdesk/internal/service"
)

// In-memory repositories backing the full stack: real services and handlers,
// real middleware chain, no MySQL or Redis.

type memUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: make(map[uint]model.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type memOrderRepo struct {
	mu     sync.Mutex
	users  *memUserRepo
	orders map[uuid.UUID]model.Order
	seq    []uuid.UUID
}

func newMemOrderRepo(users *memUserRepo) *memOrderRepo {
	return &memOrderRepo{users: users, orders: make(map[uuid.UUID]model.Order)}
}

func (r *memOrderRepo) Create(ctx context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	r.seq = append(r.seq, order.ID)
	return nil
}

func (r *memOrderRepo) Update(ctx context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// withOwner emulates the owner preload on reads.
func (r *memOrderRepo) withOwner(order model.Order) model.Order {
	if u, err := r.users.FindByID(context.Background(), order.UserID); err == nil {
		order.User = *u
	}
	return order
}

func (r *memOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	order = r.withOwner(order)
	return &order, nil
}

func (r *memOrderRepo) FindByOwner(ctx context.Context, ownerID uint) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []model.Order
	for i := len(r.seq) - 1; i >= 0; i-- {
		if o := r.orders[r.seq[i]]; o.UserID == ownerID {
			orders = append(orders, r.withOwner(o))
		}
	}
	return orders, nil
}

func (r *memOrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []model.Order
	for i := len(r.seq) - 1; i >= 0; i-- {
		orders = append(orders, r.withOwner(r.orders[r.seq[i]]))
	}
	return orders, nil
}

type memEventRepo struct {
	mu     sync.Mutex
	events []model.OrderEvent
}

func (r *memEventRepo) Create(ctx context.Context, event *model.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *memEventRepo) CreateBatch(ctx context.Context, events []model.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]struct {
		userID uint
		email  string
		role   string
	}
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]struct {
		userID uint
		email  string
		role   string
	})}
}

func (s *memTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email, role string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenID] = struct {
		userID uint
		email  string
		role   string
	}{userID, email, role}
	return nil
}

func (s *memTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if data, ok := s.tokens[tokenID]; ok {
		return data.userID, data.email, data.role, nil
	}
	return 0, "", "", fmt.Errorf("refresh token not found")
}

func (s *memTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenID)
	return nil
}

func newTestServer() *echo.Echo {
	users := newMemUserRepo()
	orders := newMemOrderRepo(users)

	jwtService := auth.NewJWTService("test-secret")
	authService := service.NewAuthService(users, jwtService, newMemTokenStore())
	orderService := service.NewOrderService(orders, &memEventRepo{}, nil)

	e := echo.New()
	Register(e, &config.Config{JWTSecret: "test-secret"},
		handler.NewAuthHandler(authService),
		handler.NewOrderHandler(orderService))
	return e
}

func request(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeAuth(t *testing.T, rec *httptest.ResponseRecorder) handler.AuthResponse {
	t.Helper()
	var resp handler.AuthResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// TestOrderLifecycle walks one order through the whole system: a customer
// registers, logs in and submits an order, then an admin approves it with
// notes, and both sides observe the change on their next fetch.
func TestOrderLifecycle(t *testing.T) {
	e := newTestServer()

	// Ann registers.
	rec := request(e, http.MethodPost, "/api/auth/register", "",
		`{"name": "Ann", "email": "ann@example.com", "password": "password123"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, model.RoleUser, decodeAuth(t, rec).User.Role)

	// Ann logs in.
	rec = request(e, http.MethodPost, "/api/auth/login", "",
		`{"email": "ann@example.com", "password": "password123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	annToken := decodeAuth(t, rec).Token
	assert.NotEmpty(t, annToken)

	// Ann submits an order for two widgets.
	rec = request(e, http.MethodPost, "/api/orders", annToken, `{
		"items": [{"name": "Widget", "quantity": 2, "price": "5.00"}],
		"delivery_address": {"street": "12 Main St", "city": "Springfield", "state": "IL", "zip_code": "62704", "country": "USA"},
		"total_amount": "10.00"
	}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created model.Order
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, model.OrderStatusPending, created.Status)
	assert.Equal(t, "ann@example.com", created.User.Email)

	// Her order list shows the pending order.
	rec = request(e, http.MethodGet, "/api/orders/my-orders", annToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var mine []model.Order
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
	assert.Equal(t, model.OrderStatusPending, mine[0].Status)

	// Ann cannot reach the admin list.
	rec = request(e, http.MethodGet, "/api/orders", annToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// An admin signs up and approves the order with notes.
	rec = request(e, http.MethodPost, "/api/auth/register", "",
		`{"name": "Root", "email": "root@example.com", "password": "password123", "role": "admin"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	adminToken := decodeAuth(t, rec).Token

	rec = request(e, http.MethodPut, "/api/orders/"+created.ID.String(), adminToken,
		`{"status": "approved", "admin_notes": "ships Monday"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated model.Order
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, model.OrderStatusApproved, updated.Status)
	assert.Equal(t, "ships Monday", updated.AdminNotes)

	// The admin list reflects the change, owner attached.
	rec = request(e, http.MethodGet, "/api/orders", adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var all []model.Order
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)
	assert.Equal(t, model.OrderStatusApproved, all[0].Status)
	assert.Equal(t, "ships Monday", all[0].AdminNotes)
	assert.Equal(t, "ann@example.com", all[0].User.Email)

	// Ann sees the approval too.
	rec = request(e, http.MethodGet, "/api/orders/my-orders", annToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	mine = nil
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)
	assert.Equal(t, model.OrderStatusApproved, mine[0].Status)
	assert.Equal(t, "ships Monday", mine[0].AdminNotes)
}

// TestOrderLifecycle_Conflicts covers the cross-call failure paths the
// lifecycle test skips over.
func TestOrderLifecycle_Conflicts(t *testing.T) {
	e := newTestServer()

	rec := request(e, http.MethodPost, "/api/auth/register", "",
		`{"name": "Ann", "email": "ann@example.com", "password": "password123"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Registering the same email again conflicts.
	rec = request(e, http.MethodPost, "/api/auth/register", "",
		`{"name": "Ann Again", "email": "ann@example.com", "password": "password123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// A wrong password is rejected.
	rec = request(e, http.MethodPost, "/api/auth/login", "",
		`{"email": "ann@example.com", "password": "wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unauthenticated order submission never gets in.
	rec = request(e, http.MethodPost, "/api/orders", "", `{"items": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
