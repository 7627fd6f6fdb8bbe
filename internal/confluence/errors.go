package confluence

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when the requested content does not exist or is not visible.
	ErrNotFound = errors.New("confluence: content not found")
	// ErrUnauthorized is returned when the credentials are rejected (401) or lack permission (403).
	ErrUnauthorized = errors.New("confluence: unauthorized")
	// ErrUpstream is returned for every other unsuccessful response.
	ErrUpstream = errors.New("confluence: upstream error")
	// ErrNotConfigured is returned when the client has no base URL or credentials.
	ErrNotConfigured = errors.New("confluence: not configured")
)

// APIError is an unsuccessful HTTP response from the Confluence API.
// It unwraps to ErrNotFound, ErrUnauthorized or ErrUpstream depending on the status code.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("confluence: bad status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps the status code to one of the package sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return ErrUpstream
	}
}
