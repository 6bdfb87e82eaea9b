package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTimerAlreadyActive = errors.New("an active timer already exists for this owner")
	ErrTimerNotRunning    = errors.New("timer is not running")
	ErrTimerNotPaused     = errors.New("timer is not paused")
	ErrNoActiveTimer      = errors.New("no active timer")
	ErrStopInFlight       = errors.New("a stop request is already in flight")
	ErrFinalizeInFlight   = errors.New("an invoice finalize request is already in flight")
	ErrNoUnbilledEntries  = errors.New("no unbilled billable entries for project")
)

// ValidationError reports a malformed user-supplied value. It is always
// recovered at the component boundary and shown to the user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports an operation that violates a state invariant, such
// as starting a second concurrent timer.
type ConflictError struct {
	Op  string
	Err error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// RemoteError reports a failed call to the remote service. The wrapped
// cause carries transport detail; Message is the server-supplied reason,
// if any.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote %s failed: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
