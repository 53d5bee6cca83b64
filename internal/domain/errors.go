package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownVehicleClass   = errors.New("unknown vehicle class")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrImmutableBookingState = errors.New("booking is completed or cancelled and can no longer be changed")
	ErrInvalidTransition     = errors.New("status transition is not allowed")
	ErrOutOfOrderAuditEntry  = errors.New("audit entry timestamp precedes the last recorded entry")
)

// MissingFieldError reports a required draft field that is empty or
// malformed.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing or malformed field: %s", e.Field)
}

// CapacityExceededError reports a passenger or luggage count outside the
// limits of the selected vehicle class.
type CapacityExceededError struct {
	Field string
	Count int
	Limit int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s count %d exceeds vehicle capacity of %d", e.Field, e.Count, e.Limit)
}

// StorageError wraps a failure from the persistence layer. The operation it
// interrupted committed nothing, so callers may retry with the same draft.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
