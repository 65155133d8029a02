// Package errs defines the failure kinds shared by the core, the application
// services, and the adapters.
//
// Callers match kinds with errors.Is:
//
//	if errors.Is(err, errs.ErrNotFound) { ... }
//
// The *Error type carries the operation and path that failed so that messages
// shown to the user say what was being attempted.
package errs

import (
	"errors"
	"fmt"
)

// Failure kinds.
var (
	// ErrConfiguration means the data directory is not set.
	ErrConfiguration = errors.New("data directory not configured")
	// ErrNotFound means a referenced patient, file, or directory is absent.
	ErrNotFound = errors.New("not found")
	// ErrDataCorruption means a persisted file exists but cannot be parsed.
	ErrDataCorruption = errors.New("data corrupted")
	// ErrInvalidArgument signals programmer misuse.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCancelled means the user declined a confirmation prompt.
	ErrCancelled = errors.New("cancelled by user")
)

// Error is a failure with operation context.
type Error struct {
	Op   string // what was being attempted, e.g. "load snapshot"
	Path string // file or directory involved, may be empty
	Kind error  // one of the kinds above, nil for plain I/O failures
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	switch {
	case e.Kind != nil && e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", msg, e.Kind, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%s: %v", msg, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	var out []error
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// New returns an error of the given kind.
func New(kind error, op, format string, args ...any) error {
	var cause error
	if format != "" {
		cause = fmt.Errorf(format, args...)
	}
	return &Error{Op: op, Kind: kind, Err: cause}
}

// IO wraps an I/O failure with the operation and path.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}

// Corrupt wraps a parse failure of a persisted file.
func Corrupt(op, path string, err error) error {
	return &Error{Op: op, Path: path, Kind: ErrDataCorruption, Err: err}
}

// NotFound builds an ErrNotFound failure for the named thing.
func NotFound(op, what string) error {
	return &Error{Op: op, Kind: ErrNotFound, Err: errors.New(what)}
}

// Invalid builds an ErrInvalidArgument failure.
func Invalid(op, format string, args ...any) error {
	return New(ErrInvalidArgument, op, format, args...)
}

// Unconfigured builds an ErrConfiguration failure.
func Unconfigured(op string) error {
	return &Error{Op: op, Kind: ErrConfiguration}
}
