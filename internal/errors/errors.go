package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents a conflict with an existing entity,
// e.g. a duplicate membership row for the same user and group.
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "for this user and group"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error. Invalid input is rejected
// before any store call is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// StoreError represents a backend or network failure at the store boundary.
// Absence of a row is never a StoreError. Callers may retry only idempotent
// operations (reads, deletes); creates must not be auto-retried because a
// duplicate side effect could result.
type StoreError struct {
	Op  string // store operation, e.g. "groups.list"
	Err error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store error: %s", e.Op)
}

// Unwrap returns the underlying cause
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() comparison for StoreError
func (e *StoreError) Is(target error) bool {
	_, ok := target.(*StoreError)
	return ok
}

// Entity Not Found Errors
var (
	ErrGroupNotFound      = &NotFoundError{Entity: "group"}
	ErrMembershipNotFound = &NotFoundError{Entity: "membership"}
)

// Already Exists Errors
var (
	ErrMembershipExists = &AlreadyExistsError{Entity: "membership", Context: "for this user and group"}
)

// Business Logic Errors
var (
	ErrInvalidPaginationParams = errors.New("invalid pagination parameters")
)

// Authentication Errors
var (
	ErrMissingUserIdentity = errors.New("user identity not found in request context")
	ErrInvalidToken        = errors.New("invalid or expired token")
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsStore checks if an error is a StoreError
func IsStore(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, context string) error {
	return &AlreadyExistsError{Entity: entity, Context: context}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewStoreError wraps a backend failure with the store operation that failed
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
