package interfaces

import (
	"errors"
	"fmt"
)

// Common error variables that exchange clients may return
var (
	// ErrAuthenticationRequired is returned when attempting an authenticated
	// endpoint without API credentials configured
	ErrAuthenticationRequired = errors.New("authentication required for this operation")

	// ErrInvalidCredentials is returned when the provided API credentials are invalid
	ErrInvalidCredentials = errors.New("invalid API credentials")

	// ErrValidation is returned when request parameters fail client-side validation
	// before any request is sent
	ErrValidation = errors.New("invalid request parameters")

	// ErrExchangeUnavailable is returned when the exchange API is unavailable
	ErrExchangeUnavailable = errors.New("exchange API unavailable")
)

// APIError represents an error response returned by an exchange: a non-zero
// business code in an otherwise well-formed envelope.
type APIError struct {
	// Code is the exchange's business error code (retCode for Bybit, code for BingX)
	Code int64

	// Message is the exchange's error description
	Message string

	// Endpoint is the API path that produced the error
	Endpoint string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("exchange error %d on %s: %s", e.Code, e.Endpoint, e.Message)
}

// NewAPIError creates a new exchange error
func NewAPIError(code int64, message, endpoint string) error {
	return &APIError{
		Code:     code,
		Message:  message,
		Endpoint: endpoint,
	}
}
