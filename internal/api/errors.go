package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrBreakerOpen is returned while the circuit breaker rejects requests.
var ErrBreakerOpen = errors.New("whiteboard API unavailable")

// APIError represents a non-2xx response from the whiteboard API.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, msg)
}

// IsNotFound returns true if the error is a 404 Not Found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the error is a 401 Unauthorized error.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsForbidden returns true if the error is a 403 Forbidden error.
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsConflict returns true if the error is a 409 Conflict error.
func (e *APIError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

// IsServerError returns true if the error is a 5xx server error.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsAPIError checks if an error is (or wraps) an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthFailure reports whether err is a 401 or 403 from the API.
func IsAuthFailure(err error) bool {
	apiErr, ok := IsAPIError(err)
	return ok && (apiErr.IsUnauthorized() || apiErr.IsForbidden())
}
