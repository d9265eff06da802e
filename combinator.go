package gofuture

import "fmt"

// inheritedOptions builds the Option list for a combinator's output
// Future: the first input's Executor and Logger, unless the caller's
// own opts explicitly override them (spec §4.6, "Executor... is the
// first input's Executor, unless an Executor is explicitly supplied").
func inheritedOptions[V any](in *Future[V], opts []Option) []Option {
	merged := make([]Option, 0, len(opts)+2)
	merged = append(merged, WithExecutor(in.executor), WithLogger(in.logger))
	merged = append(merged, opts...)
	return merged
}

// propagateTerminal mirrors a non-success terminal outcome of done into
// out: cancellation stays cancellation, ordinary failure carries its
// cause across unchanged (spec §4.6 "Failure propagation").
func propagateTerminal[V, R any](done *Future[V], out *Future[R]) {
	switch {
	case done.cell.isCancelled():
		out.Cancel(false)
	case done.cell.isFailed():
		out.TryFail(done.Cause())
	}
}

// wireCancelPropagation implements the two-way cancellation propagation
// spec §4.6 requires of every combinator: cancelling out cancels in,
// and cancelling in cancels out. The second direction is normally
// wired by the combinator's own pass-through listener (which already
// observes in's terminal state); this helper only needs to install the
// "propagate-cancel" listener on out.
func wireCancelPropagation[V, R any](in *Future[V], out *Future[R]) {
	out.AddListener(func(o *Future[R]) {
		if o.cell.isCancelled() {
			in.Cancel(true)
		}
	})
}

// safeApply runs f and turns a panic into an error, the same
// panic-to-error convention Tangerg-lynx/pkg/safe.WithRecover uses for
// goroutine bodies, applied here to user-supplied combinator functions
// so a panicking mapper fails the output Future instead of crashing the
// executor's goroutine.
func safeApply[A, B any](f func(A) (B, error), a A) (b B, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToError(r)
		}
	}()
	return f(a)
}

// safeApply2 is safeApply's two-argument counterpart, used by
// ZipWith's combinator function.
func safeApply2[A, B, R any](f func(A, B) (R, error), a A, b B) (r R, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = panicToError(rec)
		}
	}()
	return f(a, b)
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("gofuture: recovered panic: %v", r)
}
