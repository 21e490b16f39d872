package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")

	// ErrMalformedData means stored structured data could not be decoded.
	// Rows written by the importer never trigger it, so seeing it points at
	// storage corruption rather than bad user input.
	ErrMalformedData = errors.New("malformed stored data")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// MalformedDataError names the stored column that failed to decode.
type MalformedDataError struct {
	Column string
	Err    error
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed JSON in column %q: %v", e.Column, e.Err)
}

func (e *MalformedDataError) Unwrap() []error { return []error{ErrMalformedData, e.Err} }
