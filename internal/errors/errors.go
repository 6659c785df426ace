// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrDataNotFound  = errors.New("data not found")
	ErrDatabaseError = errors.New("database error")
	ErrConfigInvalid = errors.New("invalid configuration")
	ErrNoAdvisor     = errors.New("advisor not configured")
)

// FormatError signals a structurally malformed input file: too few lines,
// no recognizable header row, or required columns missing after header
// resolution. It is fatal to the parse call and recoverable by the caller;
// row-level issues never produce it.
type FormatError struct {
	Input   string // which input kind failed, e.g. "order tracker CSV"
	Message string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s format: %s: %v", e.Input, e.Message, e.Err)
	}
	return fmt.Sprintf("invalid %s format: %s", e.Input, e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a new FormatError.
func NewFormatError(input, message string) *FormatError {
	return &FormatError{Input: input, Message: message}
}

// IsFormatError reports whether err is (or wraps) a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
