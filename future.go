package gofuture

import (
	"context"
	"time"
)

// Future is the Core Future of spec §4.4: a settable, cancellable,
// listenable asynchronous result. Combinators, Task Futures, and plain
// settable futures are all realised as a *Future[V], following the
// single-concrete-struct shape spec.md §9 recommends for a systems
// language ("a single concrete Core Future struct; a thin Task wrapper
// that embeds a Core Future").
//
// The zero value is not usable; construct one with NewSettable,
// Succeeded, or Failed.
type Future[V any] struct {
	cell      stateCell[V]
	waiters   waiterStack
	listeners listenerRegistry[V]
	executor  Executor
	logger    Logger
}

// Option configures a Future at construction time.
type Option func(*futureOptions)

type futureOptions struct {
	executor Executor
	logger   Logger
}

// WithExecutor overrides the Executor a Future notifies listeners
// through. Without it, a Future uses DefaultExecutor().
func WithExecutor(e Executor) Option {
	return func(o *futureOptions) { o.executor = e }
}

// WithLogger overrides the Logger a Future reports listener panics and
// executor rejections to. Without it, a Future uses DefaultLogger().
func WithLogger(l Logger) Option {
	return func(o *futureOptions) { o.logger = l }
}

func resolveOptions(opts []Option) futureOptions {
	o := futureOptions{executor: DefaultExecutor(), logger: DefaultLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewSettable creates a new Incomplete Future with no waiters and no
// listeners. Its outcome is written by explicit TrySucceed/TryFail/
// Cancel calls rather than by running a task (spec §3.4, "Settable
// Future" in the glossary).
func NewSettable[V any](opts ...Option) *Future[V] {
	o := resolveOptions(opts)
	return &Future[V]{executor: o.executor, logger: o.logger}
}

// Succeeded returns a Future that is already successfully completed
// with v (spec §9: "typed enums for completed-immediately... implemented
// as Core Futures pre-populated at construction").
func Succeeded[V any](v V, opts ...Option) *Future[V] {
	f := NewSettable[V](opts...)
	f.cell.tryPublishSuccess(v)
	return f
}

// Failed returns a Future that is already completed with err.
func Failed[V any](err error, opts ...Option) *Future[V] {
	f := NewSettable[V](opts...)
	f.cell.tryPublishFailure(err)
	return f
}

// Executor returns the Future's configured Executor.
func (f *Future[V]) Executor() Executor { return f.executor }

// --- State Cell operations (spec §4.1, §4.4) ---

// TrySucceed attempts to complete f with v. Returns false, with no
// side effects, if f was already completed by a racing call.
func (f *Future[V]) TrySucceed(v V) bool {
	if !f.cell.tryPublishSuccess(v) {
		return false
	}
	f.finish()
	return true
}

// TryFail attempts to complete f with err. err must be non-nil. Returns
// false if f was already completed.
func (f *Future[V]) TryFail(err error) bool {
	if err == nil {
		panic("gofuture: TryFail called with nil error")
	}
	if !f.cell.tryPublishFailure(err) {
		return false
	}
	f.finish()
	return true
}

// SetSuccess completes f with v, panicking with ErrIllegalState if f
// was already completed (spec §4.4: "IllegalState on already-completed").
func (f *Future[V]) SetSuccess(v V) {
	if !f.TrySucceed(v) {
		panic(ErrIllegalState)
	}
}

// SetFailure completes f with err, panicking with ErrIllegalState if f
// was already completed.
func (f *Future[V]) SetFailure(err error) {
	if !f.TryFail(err) {
		panic(ErrIllegalState)
	}
}

// Cancel attempts to move f to the Cancelled (or Interrupted, if
// mayInterrupt) terminal state. Returns true iff this call won the
// race. Cancellation is a state transition, not a thread interrupt
// (spec §5); mayInterrupt only controls whether a Task Future's
// interruptTask hook runs.
func (f *Future[V]) Cancel(mayInterrupt bool) bool {
	if !f.cell.tryPublishCancel(mayInterrupt) {
		return false
	}
	f.finish()
	return true
}

// finish is invoked exactly once, by whichever TrySucceed/TryFail/
// Cancel call won the race. It drains and wakes the waiter stack, then
// runs the listener notification pass.
func (f *Future[V]) finish() {
	f.waiters.drainAndWake()
	f.listeners.notify(f, f.executor, f.logger)
}

// IsDone reports whether f has reached a terminal state.
func (f *Future[V]) IsDone() bool { return f.cell.isDone() }

// IsSuccess reports whether f completed successfully.
func (f *Future[V]) IsSuccess() bool { return f.cell.isSuccess() }

// IsFailed reports whether f completed with a failure, including
// cancellation (a specialised failure, spec glossary).
func (f *Future[V]) IsFailed() bool { return f.cell.isFailed() }

// IsCancelled reports whether f's terminal state is Cancelled or
// Interrupted.
func (f *Future[V]) IsCancelled() bool { return f.cell.isCancelled() }

// IsCancellable reports whether f can still be cancelled, i.e. has not
// yet reached a terminal state.
func (f *Future[V]) IsCancellable() bool { return !f.cell.isDone() }

// Cause returns the failure cause when f is Failed or Cancelled, or nil
// otherwise (spec §4.1 get_cause).
func (f *Future[V]) Cause() error { return f.cell.cause() }

// GetNow returns the success value and true, or the zero value and
// false if f has not completed successfully (spec §4.4 get_now).
func (f *Future[V]) GetNow() (V, bool) { return f.cell.getNow() }

// --- Blocking accessors (spec §4.2, §4.4) ---

// Await blocks until f is done or ctx is done, whichever comes first.
// It returns ctx.Err() if ctx ends the wait early, else nil. A
// background context (context.Background()) blocks indefinitely,
// playing the role of spec.md's uninterruptible await(); a context with
// a deadline or that can be cancelled plays the role of the
// interruptible/timed overloads.
func (f *Future[V]) Await(ctx context.Context) error {
	deadline, _ := ctx.Deadline()
	_, ok := parkUntilDone(&f.cell, &f.waiters, deadline, ctx.Done())
	if !ok {
		if err := ctx.Err(); err != nil {
			return err
		}
		// The deadline passed before ctx's own timer marked it done.
		return context.DeadlineExceeded
	}
	return nil
}

// Get blocks until f is done (or ctx ends first), then returns the
// value, or raises the failure cause wrapped in ExecutionError, or
// ctx.Err() if the wait ended early. A cancelled Future's cause is
// returned directly (satisfies errors.Is(err, ErrCancelled) /
// errors.As(err, *CancellationError)) rather than further wrapped,
// matching spec §4.4's "raises *Cancelled" distinction from the
// generic execution-wrapper case.
func (f *Future[V]) Get(ctx context.Context) (V, error) {
	if err := f.Await(ctx); err != nil {
		var zero V
		return zero, err
	}
	if f.cell.isSuccess() {
		v, _ := f.cell.getNow()
		return v, nil
	}
	var zero V
	cause := f.cell.cause()
	if f.cell.isCancelled() {
		return zero, cause
	}
	return zero, &ExecutionError{Cause: cause}
}

// Sync blocks like Get, but on failure re-raises the original cause
// directly rather than wrapping it in ExecutionError (spec §4.4 sync()).
func (f *Future[V]) Sync(ctx context.Context) (V, error) {
	if err := f.Await(ctx); err != nil {
		var zero V
		return zero, err
	}
	if f.cell.isSuccess() {
		v, _ := f.cell.getNow()
		return v, nil
	}
	var zero V
	return zero, f.cell.cause()
}

// ToChannel returns a receive-only channel that receives exactly one
// Outcome[V] once f completes, then is closed. It is a convenience
// adapter over AddListener for callers that prefer select-based
// composition (SPEC_FULL.md §3 supplemented feature).
func (f *Future[V]) ToChannel() <-chan Outcome[V] {
	ch := make(chan Outcome[V], 1)
	f.AddListener(func(done *Future[V]) {
		v, _ := done.cell.getNow()
		ch <- Outcome[V]{Value: v, Err: done.Cause(), Cancelled: done.IsCancelled()}
		close(ch)
	})
	return ch
}

// Outcome is the terminal result delivered by ToChannel: exactly one of
// a success value, or an error (Cancelled distinguishes a cancellation
// failure from an ordinary one).
type Outcome[V any] struct {
	Value     V
	Err       error
	Cancelled bool
}

// --- Listener registry operations (spec §4.3, §4.4) ---

// AddListener registers fn to run exactly once, through f's Executor,
// after f reaches a terminal state — immediately if f is already done.
func (f *Future[V]) AddListener(fn func(*Future[V])) {
	if fn == nil {
		panic(ErrNilListener)
	}
	f.listeners.add(listener[V]{plain: fn})
	if f.cell.isDone() {
		f.listeners.notify(f, f.executor, f.logger)
	}
}

// AddListenerCtx registers a context-bearing listener, fn, along with
// an arbitrary ctx value passed back to it.
func (f *Future[V]) AddListenerCtx(fn func(*Future[V], any), ctx any) {
	if fn == nil {
		panic(ErrNilListener)
	}
	f.listeners.add(listener[V]{withC: fn, ctx: ctx})
	if f.cell.isDone() {
		f.listeners.notify(f, f.executor, f.logger)
	}
}

// OnSuccess registers a callback that fires with the value iff f
// succeeds.
func (f *Future[V]) OnSuccess(cb func(V)) {
	f.AddListener(func(done *Future[V]) {
		if done.cell.isSuccess() {
			v, _ := done.cell.getNow()
			cb(v)
		}
	})
}

// OnFailure registers a callback that fires with the cause iff f fails
// (including cancellation).
func (f *Future[V]) OnFailure(cb func(error)) {
	f.AddListener(func(done *Future[V]) {
		if done.cell.isFailed() {
			cb(done.Cause())
		}
	})
}

// awaitTimeout returns a context that ends after d, for a
// time.Duration-based wait without constructing a context directly.
// Nothing in the package or its tests calls it.
func awaitTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
