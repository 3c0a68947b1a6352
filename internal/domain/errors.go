// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is missing or malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidBox is returned when a value is not one of the Leitner boxes.
	ErrInvalidBox = errors.New("invalid box")

	// ErrInvalidStatus is returned when a flashcard status is not recognised.
	ErrInvalidStatus = errors.New("invalid flashcard status")

	// ErrInvalidResponseTime is returned when a review's response time is
	// negative or larger than MaxResponseTimeMs.
	ErrInvalidResponseTime = errors.New("response time must be between 0 and 2147483647 ms")

	// ErrFlashcardNotAccepted is returned when a flashcard that is not accepted
	// is asked to take part in scheduling.
	ErrFlashcardNotAccepted = errors.New("flashcard is not accepted")
)

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError wrapping err.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
