package api

import (
	"errors"
	"net/http"
	"strings"
)

// Error is a failure reported by the backend. Detail carries the
// server-provided message when the response body had one.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return http.StatusText(e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 from the backend.
// This is the only condition that triggers the refresh-and-retry protocol.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsMFARequired reports whether a login failure is the backend asking
// for the second factor rather than rejecting the credentials.
func IsMFARequired(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && strings.HasPrefix(apiErr.Detail, "MFA is required")
}

// Message returns the server-provided message when err carries one,
// else the fallback. Network and transport failures take the fallback path.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
