package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique key collision.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyCart is returned when checkout is attempted without any cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidCart signals a cart line with a non-positive quantity or a negative price.
	ErrInvalidCart = errors.New("invalid cart")
	// ErrInvalidTransition is returned for status changes outside the lifecycle table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden is returned when the actor may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a concurrent write won the race for the same record.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable is returned when adding a menu item that is not on sale.
	ErrUnavailable = errors.New("item unavailable")
)

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for field, keeping the first message reported.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// OrNil returns nil when nothing was added so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
