package omdb

import (
	"errors"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid omdb configuration")
	// ErrUpstreamStatus indicates OMDb answered with a non-2xx status
	ErrUpstreamStatus = errors.New("unexpected upstream status")
	// ErrInvalidJSON indicates the response body was not valid JSON
	ErrInvalidJSON = errors.New("invalid JSON in upstream response")
	// ErrNotFound indicates OMDb reported the lookup as unsuccessful
	ErrNotFound = errors.New("omdb lookup failed")
)

// UpstreamError is returned for every failed call to OMDb.
type UpstreamError struct {
	// StatusCode is the upstream HTTP status, or 0 when no response arrived.
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether OMDb rejected the API key
func (e *UpstreamError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
