// internal/errors/errors.go
package appErrors

import (
	"fmt"
	"strings"
)

// ErrModelUnavailable means the model artifact could not be loaded.
// The server cannot serve predictions without it.
type ErrModelUnavailable struct {
	Path string
	Err  error
}

func (e *ErrModelUnavailable) Error() string {
	return fmt.Sprintf("model unavailable at %q: %v", e.Path, e.Err)
}

func (e *ErrModelUnavailable) Unwrap() error { return e.Err }

func NewModelUnavailable(path string, err error) error {
	return &ErrModelUnavailable{Path: path, Err: err}
}

// ErrInference is returned when a feature row does not match what the model
// expects, or when the classifier itself fails.
type ErrInference struct {
	Field  string
	Reason string
	Err    error
}

func (e *ErrInference) Error() string {
	msg := "inference failed"
	if e.Field != "" {
		msg += fmt.Sprintf(" on %s", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

func (e *ErrInference) Unwrap() error { return e.Err }

func NewInferenceError(field, reason string) error {
	return &ErrInference{Field: field, Reason: reason}
}

func WrapInferenceError(err error, reason string) error {
	return &ErrInference{Reason: reason, Err: err}
}

// ErrInvalidFieldValue is raised by the form collector for values outside a
// field's domain.
type ErrInvalidFieldValue struct {
	Field   string
	Value   any
	Allowed []string
	Reason  string
}

func (e *ErrInvalidFieldValue) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid value %v for %s: %s", e.Value, e.Field, e.Reason)
	}
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid value %v for %s", e.Value, e.Field)
	}
	return fmt.Sprintf("invalid value %v for %s: must be one of [%s]", e.Value, e.Field, strings.Join(e.Allowed, ", "))
}

func NewInvalidFieldValue(field string, value any, allowed ...string) error {
	return &ErrInvalidFieldValue{Field: field, Value: value, Allowed: allowed}
}

func NewFieldOutOfRange(field string, value any, reason string) error {
	return &ErrInvalidFieldValue{Field: field, Value: value, Reason: reason}
}

// ErrCustomerNotFound is returned by the customer repository.
type ErrCustomerNotFound struct {
	CustomerID int
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with ID %d not found", e.CustomerID)
}

func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{CustomerID: id}
}
