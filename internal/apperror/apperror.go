// Package apperror defines the error taxonomy shared by services, repositories
// and the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindForbidden
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindForbidden:
		return "FORBIDDEN"
	case KindConflict:
		return "CONFLICT"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus maps the kind to the response status used by the API.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return newf(KindNotFound, format, args...)
}

func Validation(format string, args ...any) *Error {
	return newf(KindValidation, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newf(KindForbidden, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newf(KindConflict, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newf(KindUnauthorized, format, args...)
}

// Wrap classifies err under kind with a message prefix.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

func IsForbidden(err error) bool {
	return err != nil && KindOf(err) == KindForbidden
}

func IsConflict(err error) bool {
	return err != nil && KindOf(err) == KindConflict
}
