// Package apperr define la taxonomía de errores de la API y su código HTTP.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindNotFound
	KindInvalidID
	KindUnauthenticated
	KindForbidden
	KindNotImplemented
)

// Status devuelve el código HTTP asociado al tipo de error
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindDuplicate, KindInvalidID:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func ValidationDetails(message string, details any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func Duplicate(message string, cause error) *Error {
	return &Error{Kind: KindDuplicate, Message: message, Err: cause}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InvalidID(message string) *Error {
	return &Error{Kind: KindInvalidID, Message: message}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotImplemented(message string) *Error {
	return &Error{Kind: KindNotImplemented, Message: message}
}

// Internal envuelve un error inesperado; la causa se expone en details.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// KindOf devuelve el tipo del primer *Error en la cadena, o KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
