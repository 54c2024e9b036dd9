package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a malformed request. The only error class that
	// surfaces to callers as a failure.
	ErrValidation = errors.New("validation failed")
	// ErrIndexUnavailable signals that a retrieval backend failed to initialize.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrIndexEmpty signals a search against an index that has never been built.
	ErrIndexEmpty = errors.New("index is empty")
	// ErrEntityNotRegistered signals a reference to an unknown entity type.
	ErrEntityNotRegistered = errors.New("entity type not registered")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrRebuildInProgress signals a concurrent rebuild attempt.
	ErrRebuildInProgress = errors.New("rebuild already in progress")
)

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a field-level validation error.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
