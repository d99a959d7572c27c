package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotInitialized is returned when the client is requested before the
// runtime config has been loaded and Init has run.
var ErrNotInitialized = errors.New("api client is not initialized")

// ErrAlreadyInitialized is returned by a second Init on the same Registry.
var ErrAlreadyInitialized = errors.New("api client is already initialized")

// StatusError is a non-2xx response from the backend. Message and Errors come
// from the backend's error body when it sent one.
type StatusError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
	}
	if len(e.Errors) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Errors, "; ")
}

// StatusCode extracts the HTTP status from err, or 0 when err did not come
// from a backend response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
