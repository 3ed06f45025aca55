// Package errors provides standardized domain errors with codes for the BookWorm engine.
//
// Usage:
//
//	// In services - return typed errors
//	if entryExists {
//	    return errors.DuplicateEntry("book is already on a shelf")
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrDuplicateEntry) {
//	    // show "already shelved" message
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeDuplicateEntry:
//	        ...
//	    case errors.CodeInvalidGoal:
//	        ...
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the engine.
const (
	// CodeNotFound covers missing books, entries, and goals.
	CodeNotFound Code = "NOT_FOUND"

	// CodeDuplicateEntry is returned when a (user, book) pair is already shelved.
	CodeDuplicateEntry Code = "DUPLICATE_ENTRY"

	// CodeInvalidEntry is returned when a mutation targets an entry id that
	// cannot be resolved.
	CodeInvalidEntry Code = "INVALID_ENTRY"

	// CodeInvalidGoal is returned by the stats aggregator when a reading goal
	// has a non-positive target.
	CodeInvalidGoal Code = "INVALID_GOAL"

	CodeValidation Code = "VALIDATION"
	CodeInternal   Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
// The REST layer sitting in front of the engine uses this for translation;
// the engine itself never speaks HTTP.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound, CodeInvalidEntry:
		return http.StatusNotFound
	case CodeDuplicateEntry:
		return http.StatusConflict
	case CodeValidation, CodeInvalidGoal:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound       = &Error{Code: CodeNotFound, Message: "not found"}
	ErrDuplicateEntry = &Error{Code: CodeDuplicateEntry, Message: "duplicate shelf entry"}
	ErrInvalidEntry   = &Error{Code: CodeInvalidEntry, Message: "invalid shelf entry"}
	ErrInvalidGoal    = &Error{Code: CodeInvalidGoal, Message: "invalid reading goal"}
	ErrValidation     = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal       = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// DuplicateEntry creates a duplicate entry error.
func DuplicateEntry(msg string) *Error {
	return &Error{Code: CodeDuplicateEntry, Message: msg}
}

// DuplicateEntryf creates a duplicate entry error with formatted message.
func DuplicateEntryf(format string, args ...any) *Error {
	return &Error{Code: CodeDuplicateEntry, Message: fmt.Sprintf(format, args...)}
}

// InvalidEntry creates an invalid entry error.
func InvalidEntry(msg string) *Error {
	return &Error{Code: CodeInvalidEntry, Message: msg}
}

// InvalidEntryf creates an invalid entry error with formatted message.
func InvalidEntryf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidEntry, Message: fmt.Sprintf(format, args...)}
}

// InvalidGoal creates an invalid goal error.
func InvalidGoal(msg string) *Error {
	return &Error{Code: CodeInvalidGoal, Message: msg}
}

// InvalidGoalf creates an invalid goal error with formatted message.
func InvalidGoalf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidGoal, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
