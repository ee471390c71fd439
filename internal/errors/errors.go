package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrOrderNotFound is returned when an order id does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("user already exists")
	// ErrEmptyItems is returned when an order is submitted without line items.
	ErrEmptyItems = errors.New("order must contain at least one item")
	// ErrInvalidItem is returned when a line item has a bad quantity or price.
	ErrInvalidItem = errors.New("invalid order item")
	// ErrInvalidAddress is returned when a delivery address field is missing.
	ErrInvalidAddress = errors.New("invalid delivery address")
	// ErrInvalidStatus is returned when an unknown order status is requested.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrForbidden is returned when the caller's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unrecognized errors
// surface as a generic 500; nothing is retried or recovered internally.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrOrderNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "ORDER_NOT_FOUND")
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrEmailTaken:
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case ErrEmptyItems:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_ITEMS")
	case ErrInvalidItem:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ITEM")
	case ErrInvalidAddress:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ADDRESS")
	case ErrInvalidStatus:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	case ErrForbidden:
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
