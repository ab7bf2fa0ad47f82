// Package shared contains the error vocabulary used across the domain packages.
// This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")
	ErrLimitReached    = errors.New("limit reached")

	// Persistence errors
	ErrPersistenceRead  = errors.New("persistence read failed")
	ErrPersistenceWrite = errors.New("persistence write failed")

	// Export errors
	ErrExportIO = errors.New("export failed")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "roster", "session", "report"
	Op      string // Operation that failed, e.g., "AddStudent", "Import"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// UserMessage returns the human-readable part of a domain error, suitable for
// showing to the instructor. Other errors are returned as-is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) {
		if de.Err != nil {
			return fmt.Sprintf("%s: %v", de.Message, de.Err)
		}
		return de.Message
	}
	return err.Error()
}

// Roster errors
var (
	ErrEmptyName          = NewDomainError("roster", "AddStudent", ErrEmptyValue, "student name must not be empty")
	ErrNameTooLong        = NewDomainError("roster", "AddStudent", ErrValueOutOfRange, "student name is too long")
	ErrDuplicateName      = NewDomainError("roster", "AddStudent", ErrAlreadyExists, "a student with this name already exists")
	ErrRosterFull         = NewDomainError("roster", "AddStudent", ErrLimitReached, "maximum number of students reached")
	ErrGradeOutOfRange    = NewDomainError("roster", "SetGrade", ErrValueOutOfRange, "grade must be between 1 and 6")
	ErrUnknownDeliverable = NewDomainError("roster", "Validate", ErrInvalidID, "unknown deliverable")
	ErrStudentNotFound    = NewDomainError("roster", "Find", ErrNotFound, "student not found")
)

// Session errors
var (
	ErrInvalidSession  = NewDomainError("session", "Import", ErrInvalidFormat, "invalid session file format")
	ErrNothingToExport = NewDomainError("session", "Export", ErrEmptyValue, "no data to export")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrLimitReached) ||
		errors.Is(err, ErrAlreadyExists)
}

// IsPersistence checks if the error came from the durable state slot.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistenceRead) || errors.Is(err, ErrPersistenceWrite)
}
