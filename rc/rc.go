// Package rc implements the closed return-code taxonomy shared by the frame
// pool and redo log packages: SUCCESS, NOMEM, INVALID_ARGUMENT, INTERNAL,
// IOERR and RECORD_EOF. Failures raised by this module's exported operations
// are returned as one of these as a Go error rather than an ad hoc
// fmt.Errorf string, so callers can branch on outcome the way the source
// design expects. The log file's ReadAt and the Close methods return the
// underlying os errors unchanged, and errors from caller-supplied callbacks
// and transactions are passed through as they are.
package rc

import (
	"errors"
	"fmt"
)

// Code is one member of the closed error taxonomy.
type Code int

const (
	// Success is never returned as an error; it exists so Code has a zero
	// value distinct from the real failure codes.
	Success Code = iota
	NoMem
	InvalidArgument
	Internal
	IOErr
	RecordEOF
)

func (c Code) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case NoMem:
		return "NOMEM"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case Internal:
		return "INTERNAL"
	case IOErr:
		return "IOERR"
	case RecordEOF:
		return "RECORD_EOF"
	default:
		return "UNKNOWN"
	}
}

// Error carries a taxonomy Code plus context, optionally wrapping an
// underlying cause (e.g. an *os.PathError from log I/O).
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	}
	return e.Code.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a taxonomy error with a message and no wrapped cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Msg: msg}
}

// Wrap builds a taxonomy error around an underlying cause.
func Wrap(code Code, msg string, err error) error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// Is reports whether err (or something it wraps) carries the given Code.
func Is(err error, code Code) bool {
	var rcErr *Error
	if errors.As(err, &rcErr) {
		return rcErr.Code == code
	}
	return false
}

// CodeOf extracts the Code from err, or Success if err is nil, or Internal
// if err does not carry a taxonomy code.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var rcErr *Error
	if errors.As(err, &rcErr) {
		return rcErr.Code
	}
	return Internal
}
