package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across the client layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"

	// Client-side classifications.
	ErrCodeTransport ErrorCode = "TRANSPORT"
	ErrCodeTimeout   ErrorCode = "TIMEOUT"
	ErrCodeNoSession ErrorCode = "NO_SESSION"
	ErrCodeRemote    ErrorCode = "REMOTE"
)

// Error represents a domain-level error. Status carries the HTTP status code
// when the failure originated from a response.
type Error struct {
	Code    ErrorCode
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on code and message so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// HTTPError builds the failure for a non-success response.
func HTTPError(status int, message string) *Error {
	return &Error{Code: CodeForStatus(status), Message: message, Status: status}
}

// CodeForStatus maps an HTTP status onto an error code.
func CodeForStatus(status int) ErrorCode {
	switch {
	case status == 400 || status == 422:
		return ErrCodeInvalid
	case status == 401:
		return ErrCodeUnauthorized
	case status == 403:
		return ErrCodeForbidden
	case status == 404:
		return ErrCodeNotFound
	case status == 409:
		return ErrCodeConflict
	case status >= 500:
		return ErrCodeInternal
	default:
		return ErrCodeRemote
	}
}

// Common domain errors.
var (
	ErrNoSession        = NewError(ErrCodeNoSession, "no active session")
	ErrUnauthorized     = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload   = NewError(ErrCodeInvalid, "invalid payload")
	ErrStorageKeyAbsent = NewError(ErrCodeNotFound, "storage key not found")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// StatusOf returns the HTTP status attached to err, or 0.
func StatusOf(err error) int {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Status
	}
	return 0
}

// Invalid is a shorthand for validation failures.
func Invalid(format string, args ...interface{}) *Error {
	return NewError(ErrCodeInvalid, fmt.Sprintf(format, args...))
}
