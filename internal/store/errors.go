package store

import (
	"errors"
	"fmt"
)

// Sentinels shared by every CardStore implementation. Implementations wrap
// them with %w so callers match with errors.Is.
var (
	// ErrNotFound means no stored entity has the requested ID.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate means an insert collided with an existing ID.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity means a write was rejected because the entity failed
	// validation, either in Go or by a database constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed means a transaction could not be committed and
	// none of its writes took effect.
	ErrTransactionFailed = errors.New("transaction failed")
)

// Card flavours of the sentinels. They still match the general ones.
var (
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)
	ErrCardExists   = fmt.Errorf("%w: card", ErrDuplicate)
)

// EntityCard names review cards in StoreError.
const EntityCard = "card"

// IsNotFoundError reports whether err matches ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err matches ErrDuplicate.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError records which store operation failed on which entity.
type StoreError struct {
	Entity    string // e.g. EntityCard
	Operation string // e.g. "persist", "get_all"
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError returns a StoreError for operation on entity.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
