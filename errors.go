package gofuture

import (
	"errors"
	"fmt"
)

// Namespace prefixes every sentinel error this package defines, following
// the ygrebnov-workers convention of a package-scoped error namespace.
const Namespace = "gofuture"

var (
	// ErrCancelled is the cause reported by a Future that finished in the
	// Cancelled terminal state.
	ErrCancelled = errors.New(Namespace + ": future cancelled")

	// ErrTimeout is returned by timed blocking accessors whose deadline
	// elapsed, and is the cause installed by the Timeout combinator when
	// its delegate misses its deadline.
	ErrTimeout = errors.New(Namespace + ": future timed out")

	// ErrIllegalState is raised by set_success/set_failure style calls
	// made against an already-completed Future.
	ErrIllegalState = errors.New(Namespace + ": future already completed")

	// ErrAlreadyDone names the lost race to complete a Future. No
	// function in this package returns it: TrySucceed/TryFail/Cancel
	// report a lost race by returning false, and SetSuccess/SetFailure
	// panic with ErrIllegalState.
	ErrAlreadyDone = errors.New(Namespace + ": future already done")

	// ErrNilTask is raised when a Task Future is constructed with a nil
	// callable or action.
	ErrNilTask = errors.New(Namespace + ": task must not be nil")

	// ErrNilListener is raised when AddListener is called with a nil
	// callback.
	ErrNilListener = errors.New(Namespace + ": listener must not be nil")

	// ErrInvalidProgress is raised by SetProgress when current is
	// negative or exceeds a known (non-negative) total.
	ErrInvalidProgress = errors.New(Namespace + ": progress out of range")
)

// ExecutionError wraps the cause of a failed Future when that cause is
// surfaced through Get. It mirrors Java's ExecutionException: the
// original cause is reachable via Unwrap / errors.Is / errors.As, while
// Error() reports that the failure crossed a Future boundary.
type ExecutionError struct {
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: execution failed: %v", Namespace, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// CancellationError is the lean failure installed when a Future is
// cancelled and returned, as the same cached instance, by every Cause()
// call on it (spec §4.1). It carries no stack — Go has no cheap equivalent to a
// one-frame JVM stack trace, and the teacher's own PanicError type
// (pkg/safe/safe.go) only captures a stack for actual panics, not for
// cooperative cancellation, so none is captured here either.
type CancellationError struct {
	// Interrupted records whether the cancellation requested that a
	// running Task Future's goroutine be interrupted.
	Interrupted bool
}

func (e *CancellationError) Error() string {
	if e.Interrupted {
		return Namespace + ": cancelled (interrupted)"
	}
	return Namespace + ": cancelled"
}

func (e *CancellationError) Is(target error) bool {
	return target == ErrCancelled
}

// IsCancellation reports whether err is, or wraps, a cancellation cause.
func IsCancellation(err error) bool {
	if err == nil {
		return false
	}
	var ce *CancellationError
	return errors.As(err, &ce) || errors.Is(err, ErrCancelled)
}

// IsTimeout reports whether err is, or wraps, ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
