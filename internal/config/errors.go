package config

import (
	"errors"
	"fmt"
)

// ErrInvalid marks missing or out-of-range input parameters. Every
// configuration failure in the engines matches it with errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// FieldError names the offending parameter.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalid.
func (e *FieldError) Unwrap() error {
	return ErrInvalid
}

// Invalid builds a FieldError with a formatted reason.
func Invalid(field, format string, args ...any) error {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
