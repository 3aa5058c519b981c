// Package apperr provides an error type for user-facing failures whose
// messages are defined once as templates and formatted at the call site
package apperr

import "fmt"

// Error is an application error. Message may contain fmt verbs which are
// filled in by Fmt.
type Error struct {
	Cause   error
	Message string
	Context []any
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Context) > 0 {
		msg = fmt.Sprintf(msg, e.Context...)
	}

	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}

	return msg
}

// Fmt returns a copy of the error with its message arguments set.
func (e *Error) Fmt(args ...any) *Error {
	err := *e
	err.Context = args

	return &err
}

// Wrap returns a copy of the error that wraps the given cause.
func (e *Error) Wrap(cause error) *Error {
	err := *e
	err.Cause = cause

	return &err
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target was created from the same message template.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Message == e.Message
}
