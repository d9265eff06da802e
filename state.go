package gofuture

import "sync/atomic"

// futureState is the State Cell (spec §3.1, Encoding A): an integer state
// plus a separate result slot. Transitions are: Incomplete -> Completing
// -> {Success, Failure, Cancelled}, and, when cancellation requests
// interruption, Incomplete -> Interrupting -> Interrupted. The result
// slot is always written while the state is transient, before the
// terminal state is published.
type futureState int32

const (
	stateIncomplete futureState = iota
	stateCompleting  // transient: Incomplete -> Completing -> {Success, Failure, Cancelled}
	stateInterrupting // transient: Incomplete -> Interrupting -> Interrupted
	stateSuccess
	stateFailure
	stateCancelled
	stateInterrupted
)

// isTransient reports whether s is a marker state that must never be
// surfaced as a result; readers spin/yield through it (spec §4.1).
func (s futureState) isTransient() bool {
	return s == stateCompleting || s == stateInterrupting
}

func (s futureState) isDone() bool {
	switch s {
	case stateSuccess, stateFailure, stateCancelled, stateInterrupted:
		return true
	default:
		return false
	}
}

func (s futureState) isCancelled() bool {
	return s == stateCancelled || s == stateInterrupted
}

// stateCell is embedded in Future and holds the atomic outcome. It never
// appears in the public API; Future's methods are the contract.
type stateCell[V any] struct {
	state futureState32

	value V
	err   error

	// cancelCause caches the lean cancellation error installed by
	// tryPublishCancel so repeated Cause() calls on a cancelled Future
	// return the same instance (spec §4.1).
	cancelCause atomic.Pointer[CancellationError]

	// interruptFn is invoked once, by cancel(true), only on Task
	// Futures (set by newTaskCore). nil on plain settable futures.
	interruptFn func()
}

// futureState32 is a thin atomic.Int32 wrapper so callers read/write
// futureState values without repeated casts.
type futureState32 struct {
	v atomic.Int32
}

func (s *futureState32) load() futureState {
	return futureState(s.v.Load())
}

func (s *futureState32) store(v futureState) {
	s.v.Store(int32(v))
}

func (s *futureState32) cas(old, new futureState) bool {
	return s.v.CompareAndSwap(int32(old), int32(new))
}

// tryPublishSuccess attempts Incomplete -> Completing -> Success. It
// returns false without side effects if another goroutine already won
// the race to complete the cell.
func (c *stateCell[V]) tryPublishSuccess(v V) bool {
	if !c.state.cas(stateIncomplete, stateCompleting) {
		return false
	}
	c.value = v
	c.state.store(stateSuccess)
	return true
}

// tryPublishFailure attempts Incomplete -> Completing -> Failure.
func (c *stateCell[V]) tryPublishFailure(err error) bool {
	if !c.state.cas(stateIncomplete, stateCompleting) {
		return false
	}
	c.err = err
	c.state.store(stateFailure)
	return true
}

// tryPublishCancel attempts Incomplete -> Completing -> Cancelled
// (mayInterrupt == false) or Incomplete -> Interrupting -> Interrupted
// (mayInterrupt == true, invoking interruptFn in between, per spec §4.1
// cancel()).
func (c *stateCell[V]) tryPublishCancel(mayInterrupt bool) bool {
	if mayInterrupt {
		if !c.state.cas(stateIncomplete, stateInterrupting) {
			return false
		}
		if c.interruptFn != nil {
			c.interruptFn()
		}
		c.err = &CancellationError{Interrupted: true}
		c.state.store(stateInterrupted)
		return true
	}
	if !c.state.cas(stateIncomplete, stateCompleting) {
		return false
	}
	c.err = &CancellationError{}
	c.state.store(stateCancelled)
	return true
}

func (c *stateCell[V]) isDone() bool {
	return c.state.load().isDone()
}

func (c *stateCell[V]) isSuccess() bool {
	return c.state.load() == stateSuccess
}

func (c *stateCell[V]) isFailed() bool {
	s := c.state.load()
	return s == stateFailure || s.isCancelled()
}

func (c *stateCell[V]) isCancelled() bool {
	return c.state.load().isCancelled()
}

// cause returns the failure when the cell is in Failure or Cancelled,
// else nil. For a Cancelled cell the err field is already the lean
// CancellationError installed by tryPublishCancel, cached for identity
// across repeated reads as spec §4.1 requires.
func (c *stateCell[V]) cause() error {
	s := c.state.load()
	if s == stateFailure {
		return c.err
	}
	if s.isCancelled() {
		if ce, ok := c.err.(*CancellationError); ok && ce != nil {
			if cached := c.cancelCause.Load(); cached != nil {
				return cached
			}
			c.cancelCause.Store(ce)
			return ce
		}
		return c.err
	}
	return nil
}

// getNow returns the success value and true, or the zero value and
// false if the cell did not complete successfully.
func (c *stateCell[V]) getNow() (V, bool) {
	if c.state.load() == stateSuccess {
		return c.value, true
	}
	var zero V
	return zero, false
}
