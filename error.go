package keiba

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	// EINCOMPATIBLE marks a real race whose category the parser does not
	// support (jump races, straight courses).
	EINCOMPATIBLE = "incompatible"
	EINTERNAL     = "internal"
	EINVALID      = "invalid"
	// ENOTFOUND marks a document without race data. The site answers 200
	// with a placeholder page for race slots that never took place.
	ENOTFOUND    = "not_found"
	EUNKNOWNMARK = "unknown_mark"
	EUNPARSABLE  = "unparsable"
)

// Error represents an application-specific error.
type Error struct {
	// Machine-readable error code.
	Code string

	// Field names the document field that failed to parse, if any.
	Field string

	// Human-readable message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("keiba error: code=%s field=%s message=%s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("keiba error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorField unwraps an application error and returns the failing field.
func ErrorField(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// IsSkippable reports whether err marks a document that bulk tooling should
// skip silently: a missing race or an unsupported race category.
func IsSkippable(err error) bool {
	switch ErrorCode(err) {
	case ENOTFOUND, EINCOMPATIBLE:
		return true
	}
	return false
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// FieldErrorf returns an Error with a given code bound to a document field.
func FieldErrorf(code, field string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}
