package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a business-rule violation.
// Domain errors are never transient and must not be retried.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)

// IsNotFound reports whether err is the not-found sentinel
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ExternalError wraps a failure from an external collaborator (stock or
// accounting service). Unlike a DomainError it aborts the enclosing
// transaction and may be transient from the caller's point of view.
type ExternalError struct {
	Op  string // collaborator operation, e.g. "warehouse.increment_stock"
	Err error
}

// Error implements the error interface
func (e *ExternalError) Error() string {
	return fmt.Sprintf("external call %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the wrapped error
func (e *ExternalError) Unwrap() error {
	return e.Err
}

// NewExternalError wraps err as a collaborator failure
func NewExternalError(op string, err error) *ExternalError {
	return &ExternalError{Op: op, Err: err}
}
