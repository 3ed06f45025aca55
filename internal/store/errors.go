package store

import "fmt"

// Error is a storage-level error. Services translate these into coded
// domain errors at the engine boundary.
type Error struct {
	Message string
	Err     error // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Message: e.Message,
		Err:     err,
	}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Message: "invalid input",
	}
)
