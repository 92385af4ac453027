package ledger

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
)

var (
	// ErrValidation marks a draft that violates a domain invariant.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a reference to an entity that does not exist in the session.
	ErrNotFound = errors.New("not found")
	// ErrStore marks a persistence failure. Callers may retry.
	ErrStore = errors.New("store failure")
)

// ValidationError describes the offending field of a rejected draft.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError builds an ErrNotFound for the given entity kind and id.
func NotFoundError(kind string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// StoreError wraps a persistence failure so it matches ErrStore.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrStore) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
