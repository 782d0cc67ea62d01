// Package apperr defines the application error taxonomy shared by services
// and the HTTP layer. Handlers translate these into status codes; services
// return them so checks stay testable without a running server.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindUnauthorized
	KindInvalidTransition
	KindInvalidOperation
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
	// Fields carries field-level validation detail when Kind is KindValidation.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func ValidationMsg(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition names the attempted from/to pair.
func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("invalid transition from %s to %s", from, to),
	}
}

func InvalidOperation(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidOperation, Message: fmt.Sprintf(format, args...)}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
