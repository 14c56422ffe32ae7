package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is surfaced for any 401 response. The session is
// terminal at that point: the cached cookie has already been cleared and
// the user must sign in again.
var ErrUnauthorized = errors.New("session expired, sign in again")

// Error is the structured error for a non-2xx API response. Callers
// branch on Status: 400 carries a server validation message, 403 a
// permission message, and so on.
type Error struct {
	Status  int
	Message string
	Body    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d", e.Status)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) work on 401 responses.
func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// StatusOf returns the HTTP status of err if it is an API error, else 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404 API error.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
