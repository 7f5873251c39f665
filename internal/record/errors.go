package record

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrDeleted     = errors.New("record already deleted")
	ErrNotFound    = errors.New("record not found")
	ErrUnsaved     = errors.New("record has never been saved")
	ErrNoSuchField = errors.New("no such field")
)

// PersistenceError wraps a store-level failure during hydrate, insert,
// update, delete, or select.
type PersistenceError struct {
	Op    string
	Table string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s on %s: %v", e.Op, e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(op, table string, err error) error {
	return &PersistenceError{Op: op, Table: table, Err: err}
}

// FieldError is a single per-field validation failure.
type FieldError struct {
	Table   string
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Table, e.Field, e.Message)
}

// ValidationErrors aggregates per-field failures from a validation pass,
// collected recursively across cascaded related records.
type ValidationErrors struct {
	Failures []FieldError
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
