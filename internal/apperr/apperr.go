// Package apperr defines the error taxonomy shared by the core packages.
//
// Every concrete failure is an *Error carrying a stable Code and one of the
// kind sentinels below, so callers can match either the precise failure
// (errors.Is(err, payments.ErrAlreadySettled)) or the whole class
// (errors.Is(err, apperr.ErrValidation)).
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("rate limited")
)

// CodeStorageFailure is the code used for every wrapped persistence failure.
const CodeStorageFailure = "STORAGE_FAILURE"

// Error is a classified application error.
type Error struct {
	Kind    error  // one of the kind sentinels
	Code    string // stable machine-readable code, e.g. ALREADY_SETTLED
	Message string // human-readable reason
	Err     error  // underlying cause, if any
}

// New creates a classified error.
func New(kind error, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Wrap returns a copy of e with cause attached.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

// Withf returns a copy of e with a more specific message.
func (e *Error) Withf(format string, args ...any) *Error {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

// Storage wraps a persistence failure.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) && errors.Is(ae.Kind, ErrStorage) {
		return err
	}
	return &Error{Kind: ErrStorage, Code: CodeStorageFailure, Message: op, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// MessageOf returns the human-readable message of the first *Error in err's
// chain, falling back to err.Error().
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
