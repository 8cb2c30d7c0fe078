// Package apperr defines the error taxonomy shared by every service and
// handler: a code, a caller-facing message, and an optional wrapped cause.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation    Code = "validation"
	CodeNotFound      Code = "not_found"
	CodeForbidden     Code = "forbidden"
	CodeLimitExceeded Code = "limit_exceeded"
	CodeUpstream      Code = "upstream"
)

type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Code, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message; nil in, nil out.
func Wrap(code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

func Validation(format string, args ...any) error {
	return New(CodeValidation, format, args...)
}

func NotFound(format string, args ...any) error {
	return New(CodeNotFound, format, args...)
}

func Forbidden(format string, args ...any) error {
	return New(CodeForbidden, format, args...)
}

func LimitExceeded(format string, args ...any) error {
	return New(CodeLimitExceeded, format, args...)
}

func Upstream(err error, format string, args ...any) error {
	return Wrap(CodeUpstream, err, format, args...)
}

func IsCode(err error, code Code) bool {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// CodeOf returns the code carried by err, defaulting to upstream for
// anything outside the taxonomy.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUpstream
}

// MessageOf returns the caller-facing message without the wrapped cause.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
