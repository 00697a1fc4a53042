package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error so the HTTP boundary can map it to a response.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindAuthorization   Kind = "authorization"
	KindUnauthenticated Kind = "unauthenticated"
	KindConflict        Kind = "conflict"
	KindDependency      Kind = "dependency"
	KindInternal        Kind = "internal"
)

// Error is a tagged error carrying its Kind and a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind around a cause.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error    { return New(KindValidation, message) }
func NotFound(message string) *Error      { return New(KindNotFound, message) }
func Authorization(message string) *Error { return New(KindAuthorization, message) }
func Conflict(message string) *Error      { return New(KindConflict, message) }

// Unauthenticated is used for bad credentials and missing tokens.
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }

// Dependency wraps a failure of an external collaborator such as the mail queue.
func Dependency(err error, message string) *Error { return Wrap(err, KindDependency, message) }

// Internal wraps an unexpected storage or runtime failure.
func Internal(err error, message string) *Error { return Wrap(err, KindInternal, message) }

// KindOf returns the Kind of the first *Error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// Message returns the user-facing message of err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Server error"
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
