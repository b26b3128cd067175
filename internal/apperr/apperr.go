// Package apperr defines the error taxonomy shared by the core operations.
//
// Every failure surfaced to a caller is one of four kinds: Validation
// (malformed or inconsistent input), Authorization (caller is not a member
// of the referenced group), NotFound (referenced entity does not exist) or
// Storage (the persistence layer failed after rollback). None of them are
// retried internally; retry policy belongs to the caller.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the boundary layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindAuthorization:
		return "authorization_error"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage_error"
	default:
		return "unknown_error"
	}
}

// Error is a kinded error with an optional wrapped cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Validation reports malformed or inconsistent input.
func Validation(format string, args ...any) error {
	return &Error{kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

// Authorization reports a membership/permission rejection.
func Authorization(format string, args ...any) error {
	return &Error{kind: KindAuthorization, msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity.
func NotFound(format string, args ...any) error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

// Storage wraps a persistence failure.
func Storage(msg string, err error) error {
	return &Error{kind: KindStorage, msg: msg, err: err}
}

// KindOf extracts the Kind from err, or KindUnknown if err does not carry
// one anywhere in its chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsAuthorization reports whether err is an authorization error.
func IsAuthorization(err error) bool { return KindOf(err) == KindAuthorization }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
