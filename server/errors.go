package server

import "fmt"

// ValidationError reports a missing or unusable request parameter.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// requireParam fails when a required parameter is absent or empty.
func requireParam(field, value, message string) *ValidationError {
	if value == "" {
		return &ValidationError{Field: field, Message: message}
	}
	return nil
}
