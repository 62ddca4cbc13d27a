package data

import (
	"github.com/pkg/errors"
)

// Error kinds; use errors.Is against these to classify a failure.
var (
	ErrUsage      = errors.New("usage error")
	ErrValidation = errors.New("validation error")
	ErrIO         = errors.New("io error")
	ErrNotFound   = errors.New("not found")
	ErrProcess    = errors.New("process error")

	ErrNoValidRecords   = errors.New("no valid records found in binary file")
	ErrOverwriteRefused = errors.New("operation cancelled, file not overwritten")
)

// Error pairs a kind with the error that caused it; the message is the
// cause's message so platform diagnostics are kept intact.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func NewError(kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

func Errorf(kind error, format string, v ...any) error {
	return &Error{Kind: kind, Err: errors.Errorf(format, v...)}
}

func Wrapf(kind, err error, format string, v ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: errors.Wrapf(err, format, v...)}
}
