package apierr

import (
	"errors"
	"net/http"
)

const (
	CodeInvalidInput   = "invalid_input"
	CodeUnauthorized   = "unauthorized"
	CodeForbidden      = "forbidden"
	CodeCourseNotFound = "course_not_found"
	CodeDependency     = "dependency_failure"
	CodeInternal       = "internal"
)

// Error is a failure bound for an HTTP response.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	default:
		return http.StatusText(e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From unwraps an *Error from err, or classifies it as an internal failure.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae
	}
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// PublicMessage is the message a client sees for status. 5xx responses carry
// only the status text; wrapped driver and RPC errors stay in the logs.
func PublicMessage(status int, err error) string {
	if status >= http.StatusInternalServerError || err == nil {
		if text := http.StatusText(status); text != "" {
			return text
		}
		return "unknown error"
	}
	return err.Error()
}
