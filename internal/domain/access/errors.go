package access

import "errors"

// Outcome classes every domain error belongs to. Transport maps them to
// status codes; nothing here is retried.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrInvalid          = errors.New("invalid request")
)

// Error is a user-facing business error. Code is a stable machine-readable
// identifier, Message is safe to show to the caller.
type Error struct {
	Code    string
	Message string
	class   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.class
}

func NotAuthenticated(code, message string) *Error {
	return &Error{Code: code, Message: message, class: ErrNotAuthenticated}
}

func NotFound(code, message string) *Error {
	return &Error{Code: code, Message: message, class: ErrNotFound}
}

func Forbidden(code, message string) *Error {
	return &Error{Code: code, Message: message, class: ErrForbidden}
}

func Conflict(code, message string) *Error {
	return &Error{Code: code, Message: message, class: ErrConflict}
}

func Invalid(code, message string) *Error {
	return &Error{Code: code, Message: message, class: ErrInvalid}
}

var (
	ErrNoIdentity   = NotAuthenticated("not_authenticated", "not authenticated")
	ErrUnauthorized = Forbidden("unauthorized", "not allowed to perform this action")
)
