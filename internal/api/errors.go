package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a request the server rejected. Message carries the server's own
// wording when the envelope included one, otherwise it is empty and callers
// supply their own fallback.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 rejection.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// ServerMessage extracts the server-supplied message from err, or returns
// fallback when the error carries none.
func ServerMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
