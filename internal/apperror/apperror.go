// Package apperror defines the closed set of classified errors the order
// service produces. Each variant is created where the failure happens and is
// recognised with errors.As, never by inspecting message text.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError reports that a requested resource does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFound creates a NotFoundError for the given resource and identifier
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// StatusCode returns the HTTP status for a missing resource
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// ValidationError reports a missing or malformed input field
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidation creates a ValidationError
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StatusCode returns the HTTP status for rejected input
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// ConflictError reports a unique key violation in the store
type ConflictError struct {
	Resource string
	ID       string
	Err      error
}

// NewConflict creates a ConflictError wrapping the store error
func NewConflict(resource, id string, err error) *ConflictError {
	return &ConflictError{Resource: resource, ID: id, Err: err}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with ID %s already exists", e.Resource, e.ID)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for a duplicate resource
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// StatusCode maps any error to the HTTP status of its classification.
// Unclassified errors are internal.
func StatusCode(err error) int {
	var notFound *NotFoundError
	var validation *ValidationError
	var conflict *ConflictError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &notFound):
		return notFound.StatusCode()
	case errors.As(err, &validation):
		return validation.StatusCode()
	case errors.As(err, &conflict):
		return conflict.StatusCode()
	default:
		return http.StatusInternalServerError
	}
}
