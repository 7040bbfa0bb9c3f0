package relkit

import (
	"fmt"
)

// Error is a constant error type.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrKeyNotAssigned is returned when a fact row is bound to a reference
	// entity which has not been given a surrogate key.
	ErrKeyNotAssigned = Error("reference has no surrogate key")

	// ErrUnknownPolicy is returned when parsing an unrecognized row failure
	// policy.
	ErrUnknownPolicy = Error("unknown row failure policy")
)

// RowError describes the failure of a single source row. Column is empty when
// the failure isn't tied to one field.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
}

// Cause returns the underlying error so that errors.Cause can see through a
// RowError.
func (e *RowError) Cause() error { return e.Err }

// Unwrap supports errors.Is and errors.As from the standard library.
func (e *RowError) Unwrap() error { return e.Err }

// FieldError is returned by the decode helpers. Domains turn it into a
// RowError once the line number is known.
type FieldError struct {
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: can't use %q: %v", e.Column, e.Value, e.Err)
}

// Cause returns the underlying parse error.
func (e *FieldError) Cause() error { return e.Err }

// Unwrap supports errors.Is and errors.As from the standard library.
func (e *FieldError) Unwrap() error { return e.Err }

// AtLine converts err into a *RowError for the given line, lifting the column
// out of a *FieldError if there is one.
func AtLine(line int, err error) error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RowError); ok {
		return re
	}
	if fe, ok := err.(*FieldError); ok {
		return &RowError{Line: line, Column: fe.Column, Err: fe}
	}
	return &RowError{Line: line, Err: err}
}
