package services

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate")
	ErrForbidden  = errors.New("forbidden")
)

// Error is a domain failure carrying a message safe to show to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func duplicate(message string) error {
	return &Error{Kind: ErrDuplicate, Message: message}
}

func forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}
