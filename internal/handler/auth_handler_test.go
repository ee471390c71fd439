package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "orderdesk/internal/errors"
	"orderdesk/internal/model"
	"orderdesk/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password, role string) (string, string, *model.User, error) {
	args := m.Called(ctx, name, email, password, role)
	var user *model.User
	if args.Get(2) != nil {
		user = args.Get(2).(*model.User)
	}
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	args := m.Called(ctx, email, password)
	var user *model.User
	if args.Get(2) != nil {
		user = args.Get(2).(*model.User)
	}
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func newAuthEcho(mockService *MockAuthService) *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	h := NewAuthHandler(mockService)
	e.POST("/api/auth/register", h.Register)
	e.POST("/api/auth/login", h.Login)
	e.POST("/api/auth/refresh", h.Refresh)
	e.POST("/api/auth/logout", h.Logout)
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("valid registration returns 201 with tokens", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("Register", mock.Anything, "Ann", "ann@example.com", "password123", "").Return(
			"access-1", "refresh-1", &model.User{ID: 42, Name: "Ann", Email: "ann@example.com", Role: model.RoleUser}, nil)

		e := newAuthEcho(mockService)
		rec := postJSON(e, "/api/auth/register", `{"name": "Ann", "email": "ann@example.com", "password": "password123"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "access-1", resp.Token)
		assert.Equal(t, "refresh-1", resp.RefreshToken)
		assert.Equal(t, "ann@example.com", resp.User.Email)
		mockService.AssertExpectations(t)
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("Register", mock.Anything, "Ann", "ann@example.com", "password123", "").Return(
			"", "", nil, apperrors.ErrEmailTaken)

		e := newAuthEcho(mockService)
		rec := postJSON(e, "/api/auth/register", `{"name": "Ann", "email": "ann@example.com", "password": "password123"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		mockService := new(MockAuthService)
		e := newAuthEcho(mockService)

		rec := postJSON(e, "/api/auth/register", `{"name": "Ann", "email": "ann@example.com", "password": "short"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("role outside the enum fails validation", func(t *testing.T) {
		mockService := new(MockAuthService)
		e := newAuthEcho(mockService)

		rec := postJSON(e, "/api/auth/register", `{"name": "Ann", "email": "ann@example.com", "password": "password123", "role": "root"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials return 200 with tokens", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("Login", mock.Anything, "ann@example.com", "password123").Return(
			"access-1", "refresh-1", &model.User{ID: 42, Email: "ann@example.com"}, nil)

		e := newAuthEcho(mockService)
		rec := postJSON(e, "/api/auth/login", `{"email": "ann@example.com", "password": "password123"}`)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "access-1", resp.Token)
	})

	t.Run("bad credentials return 401", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("Login", mock.Anything, "ann@example.com", "wrong").Return(
			"", "", nil, service.ErrInvalidCredentials)

		e := newAuthEcho(mockService)
		rec := postJSON(e, "/api/auth/login", `{"email": "ann@example.com", "password": "wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("valid refresh token returns a new access token", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("RefreshToken", mock.Anything, "refresh-1").Return("access-2", nil)

		e := newAuthEcho(mockService)
		rec := postJSON(e, "/api/auth/refresh", `{"refresh_token": "refresh-1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "access-2", resp.Token)
	})

	t.Run("invalid refresh token returns 401", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("RefreshToken", mock.Anything, "stale").Return("", service.ErrInvalidRefreshToken)

		e := newAuthEcho(mockService)
		rec := postJSON(e, "/api/auth/refresh", `{"refresh_token": "stale"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Logout", mock.Anything, "refresh-1").Return(nil)

	e := newAuthEcho(mockService)
	rec := postJSON(e, "/api/auth/logout", `{"refresh_token": "refresh-1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}
