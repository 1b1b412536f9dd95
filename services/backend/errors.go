package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTransport wraps failures where no HTTP response came back.
var ErrTransport = errors.New("backend unreachable")

// APIError is an HTTP error response from the backend.
type APIError struct {
	Status    int
	Message   string
	Module    string
	Operation string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s.%s: backend returned %d", e.Module, e.Operation, e.Status)
	}
	return fmt.Sprintf("%s.%s: backend returned %d: %s", e.Module, e.Operation, e.Status, e.Message)
}

// ServerMessage is the human-readable message the backend sent, if any.
func (e *APIError) ServerMessage() string {
	return e.Message
}

// MessageOr returns the backend's message for err, or fallback when it sent none.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// StatusOf maps err to the status the console should answer with.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

// IsUnauthorized reports whether the backend refused the caller's credentials.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}
