// FilePath: server/sweeps/internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Error types
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeTransport  ErrorType = "transport"
	ErrorTypeUpstream   ErrorType = "upstream"
)

// APIError represents a structured API error
type APIError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Code      int       `json:"code"`
	RequestID string    `json:"request_id,omitempty"`
	Details   any       `json:"details,omitempty"`
	err       error     // Internal error for logging
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the internal cause to errors.Is and errors.As.
func (e *APIError) Unwrap() error {
	return e.err
}

// WithRequestID adds a request ID to the error
func (e *APIError) WithRequestID(id string) *APIError {
	e.RequestID = id
	return e
}

// WithDetails adds additional details to the error
func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

// NewValidationError creates a new validation error
func NewValidationError(msg string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeValidation,
		Message: msg,
		Code:    http.StatusBadRequest,
		err:     err,
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(msg string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeDatabase,
		Message: msg,
		Code:    http.StatusInternalServerError,
		err:     err,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(msg string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: msg,
		Code:    http.StatusNotFound,
		err:     err,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(msg string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeInternal,
		Message: msg,
		Code:    http.StatusInternalServerError,
		err:     err,
	}
}

// NewTransportError reports a request that never produced a response
// (connection refused, DNS, timeout, cancellation).
func NewTransportError(msg string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeTransport,
		Message: msg,
		Code:    http.StatusBadGateway,
		err:     err,
	}
}

// NewUpstreamError reports a non-2xx answer of the sweep backend. Details
// carries the upstream status code.
func NewUpstreamError(msg string, status int) *APIError {
	return &APIError{
		Type:    ErrorTypeUpstream,
		Message: msg,
		Code:    http.StatusBadGateway,
		Details: map[string]int{"status": status},
	}
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a Validation error
func IsValidation(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsUpstream checks if an error came from the sweep backend, either as a
// transport failure or as a non-2xx answer.
func IsUpstream(err error) bool {
	return hasType(err, ErrorTypeTransport) || hasType(err, ErrorTypeUpstream)
}

// AsAPIError returns err as an *APIError, wrapping unknown errors as internal.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternalError("unexpected error", err)
}

func hasType(err error, t ErrorType) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == t
	}
	return false
}

// UpstreamStatus returns the backend status code carried by an upstream
// error, or 0.
func UpstreamStatus(err error) int {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Type != ErrorTypeUpstream {
		return 0
	}
	if d, ok := apiErr.Details.(map[string]int); ok {
		return d["status"]
	}
	return 0
}

// As is errors.As, re-exported so callers of this package need not import both.
func As(err error, target any) bool {
	return errors.As(err, target)
}
