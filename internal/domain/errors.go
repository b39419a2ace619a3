// Package domain defines core types, interfaces, and errors for the sheet
// catalog and the query preview engine.
package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates a client-correctable request problem.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SourceUnavailableError indicates a referenced backing source exists in the
// catalog but cannot be opened or read. The preview engine propagates these
// unchanged.
type SourceUnavailableError struct {
	Message string
}

func (e *SourceUnavailableError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate resource).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrSourceUnavailable creates a SourceUnavailableError with a formatted message.
func ErrSourceUnavailable(format string, args ...interface{}) *SourceUnavailableError {
	return &SourceUnavailableError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
