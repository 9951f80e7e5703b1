// Package apperr defines the error kinds shared by the store, the catalog
// service and the transports.
package apperr

import "errors"

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrStore       = errors.New("store failure")
	ErrUnsupported = errors.New("unsupported operation")
)

// Error carries a kind sentinel, a client-facing message and an optional cause.
// errors.Is matches both the kind and anything in the cause chain.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Validation reports malformed or missing caller input.
func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Msg: msg}
}

// Unsupported reports an operation the catalog deliberately does not offer.
func Unsupported(msg string) error {
	return &Error{Kind: ErrUnsupported, Msg: msg}
}

// NotFound reports a referenced id that does not exist.
func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Msg: msg}
}

// Store wraps a persistence failure. op names the failing operation.
func Store(op string, err error) error {
	return &Error{Kind: ErrStore, Msg: "store: " + op, Err: err}
}

// Message returns the client-facing message of err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return fallback
}
