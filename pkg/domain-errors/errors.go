// Package derrors provides coded domain errors shared across all services.
//
// Errors carry a stable machine-readable Code alongside a human-readable
// message. Services create errors with New or annotate collaborator failures
// with Wrap; transport layers translate codes to protocol status with
// httputil.WriteError. Callers branch on codes via HasCode rather than
// string matching.
package derrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of domain error.
type Code string

const (
	// CodeInvalidInput marks malformed or missing caller-supplied values
	// rejected at a trust boundary. Not retryable.
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks a structurally valid request that cannot be
	// served as asked (bad combination of fields, unsupported option).
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks a reference to an absent record.
	CodeNotFound Code = "not_found"

	// CodeConflict marks a write that lost to a concurrent conflicting write.
	CodeConflict Code = "conflict"

	// CodeInvariantViolation marks an attempted state transition that would
	// break a domain invariant.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeUnavailable marks a collaborator (store, cache, broker) failure.
	// The core propagates these without retrying; retry policy belongs to
	// the caller.
	CodeUnavailable Code = "unavailable"

	// CodeInternal marks an unexpected failure inside the service.
	CodeInternal Code = "internal"
)

// Error is a domain error with a code. The wrapped cause, when present, is
// reachable through errors.Unwrap for errors.Is/As chains.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message. Returns nil if err is nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if errors.As(err, &de) {
			if de.Code == code {
				return true
			}
			err = de.cause
			continue
		}
		return false
	}
	return false
}

// CodeOf returns the outermost code in err's chain, or CodeInternal when err
// carries no domain code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Is delegates to errors.Is so callers can keep a single import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
