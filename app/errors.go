package app

import (
	"errors"
	"fmt"
)

// Error kinds returned by ResourceService. Match with errors.Is.
var (
	ErrInvalidID           = errors.New("invalid identifier")
	ErrNotFound            = errors.New("not found")
	ErrInvalidBody         = errors.New("invalid body")
	ErrOperationNotAllowed = errors.New("operation not allowed")
	ErrInternal            = errors.New("internal error")
)

// Error carries an error kind, the resource it concerns and the message
// safe to show to clients.
type Error struct {
	Kind     error
	Resource string
	Message  string
	Err      error // underlying cause, never shown to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Resource, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Resource, e.Kind)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, resource, message string, cause error) *Error {
	return &Error{Kind: kind, Resource: resource, Message: message, Err: cause}
}
