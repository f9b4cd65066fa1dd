package common

import (
	"errors"
	"fmt"
	"strings"
)

// Business logic errors
var (
	// ErrNotFound covers both missing records and records the caller is not
	// allowed to see. Authorization failures on content are deliberately
	// indistinguishable from missing content.
	ErrNotFound = errors.New("resource not found")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Write errors
	ErrConflict     = errors.New("resource already exists")
	ErrNotPublished = errors.New("content is not published")
)

// FieldError describes a validation failure on a single input field.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationError aggregates field-level validation failures. No state is
// mutated when one is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError wraps field errors, or returns nil when there are none.
func NewValidationError(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// AsValidationError unwraps a ValidationError if err carries one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
