package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the application error type raised by handler code.
// Values are never mutated after construction; the With* methods return copies.
type AppError struct {
	// Kind selects the variant and with it the HTTP status.
	Kind Kind
	// Message is a human-readable error message.
	Message string
	// Detail is optional additional context. Empty means absent.
	Detail string
	// Cause is the underlying error, if any. It is never sent to clients.
	Cause error
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	s := e.Kind.Name() + ": " + e.Message
	if e.Detail != "" {
		s += " (" + e.Detail + ")"
	}
	if e.Cause != nil {
		s = fmt.Sprintf("%s: %v", s, e.Cause)
	}
	return s
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithDetail returns a copy of the error carrying the given detail.
func (e *AppError) WithDetail(detail string) *AppError {
	c := *e
	c.Detail = detail
	return &c
}

// WithCause returns a copy of the error wrapping cause.
func (e *AppError) WithCause(cause error) *AppError {
	c := *e
	c.Cause = cause
	return &c
}

func newKind(kind Kind, message string) *AppError {
	if message == "" {
		message = kind.DefaultMessage()
	}
	return &AppError{Kind: kind, Message: message}
}

// New creates a generic application error. An empty message selects the default.
func New(message string) *AppError {
	return newKind(KindGeneric, message)
}

// ServiceUnavailable creates an error for a service that cannot serve right now.
func ServiceUnavailable(message string) *AppError {
	return newKind(KindServiceUnavailable, message)
}

// NotFound creates an error for a resource that does not exist.
func NotFound(message string) *AppError {
	return newKind(KindResourceNotFound, message)
}

// Validation creates an application-level validation error.
func Validation(message string) *AppError {
	return newKind(KindValidation, message)
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}
