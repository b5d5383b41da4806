package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// AppError is the single error type services hand to controllers.
type AppError struct {
	Kind    Kind
	Code    string
	Field   string // offending input field, validation errors only
	Message string // safe to show to the client
	Err     error  // underlying cause, never serialized
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the kind onto the response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewValidation(code, field, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Field: field, Message: message}
}

func NewConflict(code, message string, cause error) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message, Err: cause}
}

func NewInternal(code, message string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Code: code, Message: message, Err: cause}
}

// As returns err as an *AppError. Anything unclassified becomes an internal error.
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(InternalServerError, "Internal server error", err)
}
