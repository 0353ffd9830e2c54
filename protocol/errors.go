package protocol

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure surfaced to the caller. The set is closed:
// every failure path maps to exactly one member.
type ErrorKind string

const (
	ErrorKindMethodNotFound ErrorKind = "MethodNotFound"
	ErrorKindInvalidParams  ErrorKind = "InvalidParams"
	ErrorKindInvalidRequest ErrorKind = "InvalidRequest"
	ErrorKindNotFound       ErrorKind = "NotFound"
	ErrorKindInternalError  ErrorKind = "InternalError"
)

// Error is the error envelope relayed verbatim to the caller. Handlers may
// return it directly to pick a specific kind; any other error reaching the
// dispatch boundary is wrapped as InternalError.
type Error struct {
	Code    ErrorKind `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewMethodNotFoundError creates an Error for an unknown tool or method.
func NewMethodNotFoundError(message string) *Error {
	return &Error{Code: ErrorKindMethodNotFound, Message: message}
}

// NewInvalidParamsError creates an Error for a validation failure.
func NewInvalidParamsError(message string) *Error {
	return &Error{Code: ErrorKindInvalidParams, Message: message}
}

// NewInvalidRequestError creates an Error for a malformed request.
func NewInvalidRequestError(message string) *Error {
	return &Error{Code: ErrorKindInvalidRequest, Message: message}
}

// NewNotFoundError creates an Error for a missing entity.
func NewNotFoundError(message string) *Error {
	return &Error{Code: ErrorKindNotFound, Message: message}
}

// NewInternalError creates an Error wrapping an unexpected failure.
func NewInternalError(message string) *Error {
	return &Error{Code: ErrorKindInternalError, Message: message}
}

// AsError converts any error into a *Error. A *Error anywhere in the chain
// passes through unchanged; everything else is classified as InternalError
// with the original failure text embedded.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return NewInternalError(err.Error())
}
