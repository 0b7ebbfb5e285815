package model

import "errors"

// ErrNotFound indicates that the addressed record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates that a write would violate a uniqueness constraint.
var ErrConflict = errors.New("already exists")

// ErrInvalidInput indicates that a request failed validation before any write.
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes why one field was rejected.
// Rule is the validation rule that failed (a validator tag such as "required"
// or a domain rule such as "count"), Param its parameter if any.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidationError is returned for rejected input. It always wraps ErrInvalidInput.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from field errors.
func NewValidationError(flds ...FieldError) error {
	return &ValidationError{Fields: flds}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	return ErrInvalidInput.Error() + ": " + e.Fields[0].Field + " " + e.Fields[0].Rule
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
