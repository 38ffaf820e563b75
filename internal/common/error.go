// Package common defines the error taxonomy shared by the store, service and
// HTTP layers. Callers match kinds with errors.Is and read the user-facing
// detail through errors.As on *Error.
package common

import "errors"

var (
	// Resource-level errors.
	ErrNotFound = errors.New("not found")

	// Request-level errors.
	ErrBadRequest   = errors.New("bad request")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")

	// Token errors (bad signature, malformed, already consumed).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Error carries one of the kinds above together with a message that is safe
// to show to API callers.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// WithCause attaches the error that triggered e.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func BadRequest(msg string) *Error {
	return &Error{Kind: ErrBadRequest, Message: msg}
}

func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// Detail returns the user-facing message of err, or "" when err does not
// carry one.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
