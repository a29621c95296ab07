package store

import (
	"fmt"
	"net/http"
)

// Error is a storage error carrying the HTTP status it maps to.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)

	generic bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets the generic sentinels match any *Error with the same status code,
// so errors.Is(ErrBookNotFound, ErrNotFound) holds while
// errors.Is(ErrEmailExists, ErrUsernameExists) does not.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.generic && t.Code == e.Code
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
		generic: true,
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
		generic: true,
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
		generic: true,
	}
)

// Entity-specific variants. All match their generic sentinel via errors.Is.
var (
	ErrUserNotFound    = ErrNotFound.WithMessage("user not found")
	ErrBookNotFound    = ErrNotFound.WithMessage("book not found")
	ErrNoteNotFound    = ErrNotFound.WithMessage("note not found")
	ErrSessionNotFound = ErrNotFound.WithMessage("session not found")

	ErrUsernameExists = ErrAlreadyExists.WithMessage("username already exists")
	ErrEmailExists    = ErrAlreadyExists.WithMessage("email already exists")
)
