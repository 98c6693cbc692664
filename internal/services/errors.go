package services

import (
	"errors"

	"storefront/pkg/utils"
)

// Kinds of failures a caller can act on. Anything else a service returns is
// an internal error.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error carries a client-facing message. errors.Is matches it against its Kind.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func invalidInput(message string, fields map[string]string) error {
	if len(fields) > 0 {
		message = message + " " + utils.FormatValidationErrors(fields)
	}
	return &Error{Kind: ErrInvalidInput, Message: message, Fields: fields}
}

func conflict(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

func notFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func invalidCredentials() error {
	return &Error{Kind: ErrInvalidCredentials, Message: "Invalid credentials."}
}
