// Package client is a Go client for the orderdesk HTTP API. It drives the
// same endpoints the dashboards use and keeps the caller's identity in an
// explicit Session value instead of global state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"orderdesk/internal/handler"
	"orderdesk/internal/model"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to an orderdesk server on behalf of one session.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New creates a client for baseURL bound to the given session.
func New(baseURL string, session *Session) *Client {
	if session == nil {
		session = &Session{}
	}
	return &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
		session: session,
	}
}

// Session returns the client's current session.
func (c *Client) Session() *Session {
	return c.session
}

// Register creates an account and signs the session in as it.
func (c *Client) Register(ctx context.Context, name, email, password, role string) error {
	req := handler.RegisterRequest{Name: name, Email: email, Password: password, Role: role}
	var resp handler.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return err
	}
	return c.adopt(&resp)
}

// Login authenticates and replaces the session identity.
func (c *Client) Login(ctx context.Context, email, password string) error {
	req := handler.LoginRequest{Email: email, Password: password}
	var resp handler.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return err
	}
	return c.adopt(&resp)
}

// Logout revokes the refresh token and clears the session.
func (c *Client) Logout(ctx context.Context) error {
	if !c.session.Active() {
		return ErrNotLoggedIn
	}
	if c.session.RefreshToken != "" {
		req := handler.LogoutRequest{RefreshToken: c.session.RefreshToken}
		// Best effort: a rejected refresh token still ends the local session.
		_ = c.do(ctx, http.MethodPost, "/api/auth/logout", req, nil)
	}
	*c.session = Session{}
	return nil
}

// CreateOrder submits a new order for the logged-in user.
func (c *Client) CreateOrder(ctx context.Context, req handler.CreateOrderRequest) (*model.Order, error) {
	if !c.session.Active() {
		return nil, ErrNotLoggedIn
	}
	var order model.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// MyOrders fetches the logged-in user's orders, newest first.
func (c *Client) MyOrders(ctx context.Context) ([]model.Order, error) {
	if !c.session.Active() {
		return nil, ErrNotLoggedIn
	}
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/my-orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AllOrders fetches every order. The server rejects non-admin callers.
func (c *Client) AllOrders(ctx context.Context) ([]model.Order, error) {
	if !c.session.Active() {
		return nil, ErrNotLoggedIn
	}
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus sets an order's status, optionally attaching notes.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status, notes string) (*model.Order, error) {
	if !c.session.Active() {
		return nil, ErrNotLoggedIn
	}
	req := handler.UpdateStatusRequest{Status: status, AdminNotes: notes}
	var order model.Order
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+orderID.String(), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// adopt replaces the session identity from an auth response.
func (c *Client) adopt(resp *handler.AuthResponse) error {
	if resp.User == nil {
		return fmt.Errorf("auth response missing user")
	}
	c.session.Token = resp.Token
	c.session.RefreshToken = resp.RefreshToken
	c.session.User = *resp.User
	return nil
}

// do issues one JSON request and decodes the response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Active() {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls a human-readable message out of an error body.
func errorMessage(raw []byte) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Message == nil {
		return string(raw)
	}

	var text string
	if err := json.Unmarshal(envelope.Message, &text); err == nil {
		return text
	}
	var structured struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(envelope.Message, &structured); err == nil && structured.Error != "" {
		return structured.Error
	}
	return string(envelope.Message)
}
