package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrServer            = errors.New("server error")
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-2xx answer from the backend. It unwraps to one of the
// sentinel errors above so callers can match with errors.Is.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", e.kind, e.Status)
	}
	return fmt.Sprintf("%s (status %d): %s", e.kind, e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

func newAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message, kind: kindForStatus(status)}
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity, status == http.StatusConflict:
		return ErrValidation
	case status >= 500:
		return ErrServer
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}

// ServerMessage returns the backend's human message carried by err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
