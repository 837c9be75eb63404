package rhinodoc

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	EPARSE    = "parse"
)

// Error represents an application-specific error. Op, when set, names the
// service operation that produced it.
type Error struct {
	Code    string
	Message string
	Op      string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("rhinodoc error: op=%s code=%s message=%s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("rhinodoc error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
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

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// ErrorOp returns the operation name attached to err, if any.
func ErrorOp(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// WithOp returns err as an *Error tagged with op. Application errors keep
// their code and message; anything else becomes EINTERNAL carrying the
// original text. A nil err stays nil.
func WithOp(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return &Error{Code: e.Code, Message: e.Message, Op: op}
	}
	return &Error{Code: EINTERNAL, Message: err.Error(), Op: op}
}
