package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies vault failures. Callers branch on the kind; the message
// is for humans.
type ErrorKind string

const (
	KindConfiguration   ErrorKind = "CONFIGURATION_ERROR"
	KindIntegrity       ErrorKind = "INTEGRITY_ERROR"
	KindDeserialization ErrorKind = "DESERIALIZATION_ERROR"
	KindValidation      ErrorKind = "VALIDATION_ERROR"
	KindBreached        ErrorKind = "BREACHED_PASSPHRASE"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindConflict        ErrorKind = "CONFLICT"
	KindAuthorization   ErrorKind = "AUTHORIZATION_ERROR"
	KindStorage         ErrorKind = "STORAGE_ERROR"
)

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrConfiguration   = &Error{Kind: KindConfiguration}
	ErrIntegrity       = &Error{Kind: KindIntegrity}
	ErrDeserialization = &Error{Kind: KindDeserialization}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrBreached        = &Error{Kind: KindBreached}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrAuthorization   = &Error{Kind: KindAuthorization}
	ErrStorage         = &Error{Kind: KindStorage}
)

// Error is the structured error returned by every vault operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Field   string // set for KindValidation
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field %q)", msg, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// WithCause attaches an underlying cause.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// NewError creates an Error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorf creates an Error with a formatted message.
func NewErrorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// MissingField reports a required field left empty.
func MissingField(field string) *Error {
	return &Error{Kind: KindValidation, Message: "missing required field", Field: field}
}

// KindOf returns the kind of err, or "" if err is not a vault error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
