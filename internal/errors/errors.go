// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrRateLimited indicates a remote backend answered with HTTP 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnconfigured indicates a backend tier has no credential or
	// endpoint and must be skipped.
	ErrUnconfigured = errors.New("backend not configured")

	// ErrMalformedResponse indicates a remote backend returned a body
	// that could not be decoded.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrNetworkFailure indicates a transport-level failure talking to a
	// remote backend.
	ErrNetworkFailure = errors.New("network failure")

	// ErrEmptyResponse indicates a remote backend answered 2xx with an
	// empty body.
	ErrEmptyResponse = errors.New("empty backend response")

	// ErrSessionBusy indicates a query arrived while a previous
	// orchestration for the same session is still in flight.
	ErrSessionBusy = errors.New("session has a query in flight")
)

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
