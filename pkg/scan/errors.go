package scan

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of them.
var (
	ErrValidation = errors.New("validation error")
	ErrLookup     = errors.New("lookup error")
	ErrTransport  = errors.New("transport error")
)

// Error carries the kind, a human readable message and an optional cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

var (
	ErrEmptySelection       = &Error{Kind: ErrValidation, Msg: "please select at least one item"}
	ErrNoPallet             = &Error{Kind: ErrValidation, Msg: "please scan a pallet before logging items"}
	ErrSelectionPending     = &Error{Kind: ErrValidation, Msg: "please log your currently selected items before editing another log"}
	ErrNoLogs               = &Error{Kind: ErrValidation, Msg: "no logs to submit"}
	ErrSubmissionInProgress = &Error{Kind: ErrValidation, Msg: "a submission is already in progress"}
	ErrLogNotFound          = &Error{Kind: ErrLookup, Msg: "log entry not found"}
)

func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func Lookupf(format string, args ...any) error {
	return &Error{Kind: ErrLookup, Msg: fmt.Sprintf(format, args...)}
}

// Transport wraps a store or network failure.
func Transport(msg string, err error) error {
	return &Error{Kind: ErrTransport, Msg: msg, Err: err}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsLookup reports whether err is a lookup failure.
func IsLookup(err error) bool { return errors.Is(err, ErrLookup) }

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }
