package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sstrelka/mentora/internal/learning"
)

// Error is a non-2xx response from the backend. Detail carries the
// backend's user-facing message when the error body had one.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "not authorized, log in again"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusNotFound:
		return "not found"
	default:
		return fmt.Sprintf("request failed with HTTP %d", e.StatusCode)
	}
}

// Is lets errors.Is match the conditions the lifecycle controller cares
// about without this package leaking HTTP codes upward.
func (e *Error) Is(target error) bool {
	if target == learning.ErrNotFound {
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnauthorized reports a 401: the token is missing or stale and the
// caller must re-authenticate.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports a 403. On the plan detail endpoint it means the
// plan exists but is not confirmed yet.
func IsForbidden(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// IsNotFound reports a 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsConflict reports a 409: the operation's precondition no longer holds
// server-side.
func IsConflict(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}
