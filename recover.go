package gofuture

import "errors"

// ErrorHandling returns a new Future that converts in's failure into a
// success by always offering the cause to f (spec §4.6
// error_handling(f)). Per the Open Question spec.md §9 resolves in
// favour of the stricter reading, cancellation passes through
// unchanged and never reaches f.
func ErrorHandling[V any](in *Future[V], f func(error) (V, error), opts ...Option) *Future[V] {
	return recoverWith(in, opts, func(cause error) (error, bool) {
		return cause, true
	}, f)
}

// Catching offers the cause to f only when the cause's own type is
// exactly E — a direct type assertion against the top-level cause, with
// no cause-chain walk (spec §4.6 catching(type, f): "offers the cause
// only when type.is_instance(cause)").
func Catching[V any, E error](in *Future[V], f func(E) (V, error), opts ...Option) *Future[V] {
	return recoverWith(in, opts, func(cause error) (E, bool) {
		e, ok := cause.(E)
		return e, ok
	}, f)
}

// CatchSpecificCause walks the cause chain via errors.As and offers the
// most-specific (nearest-to-top) cause assignable to E (spec §4.6
// catch_specific_cause).
func CatchSpecificCause[V any, E error](in *Future[V], f func(E) (V, error), opts ...Option) *Future[V] {
	return recoverWith(in, opts, func(cause error) (E, bool) {
		var target E
		ok := errors.As(cause, &target)
		return target, ok
	}, f)
}

// CatchRootCause offers the root cause (the innermost error reached by
// repeatedly unwrapping) only if the root itself is of type E (spec
// §4.6 catch_root_cause).
func CatchRootCause[V any, E error](in *Future[V], f func(E) (V, error), opts ...Option) *Future[V] {
	return recoverWith(in, opts, func(cause error) (E, bool) {
		e, ok := rootCause(cause).(E)
		return e, ok
	}, f)
}

// rootCause repeatedly unwraps err and returns the innermost error.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// recoverWith is the shared machinery behind ErrorHandling/Catching/
// CatchSpecificCause/CatchRootCause: select applies to in's cause when
// in fails without being cancelled; when it matches, f converts the
// selected value into the output's success (or a new failure, if f
// itself fails); when it does not match, the original failure passes
// through unchanged.
func recoverWith[V any, E any](in *Future[V], opts []Option, selector func(error) (E, bool), f func(E) (V, error)) *Future[V] {
	merged := inheritedOptions(in, opts)
	out := NewSettable[V](merged...)
	wireCancelPropagation(in, out)

	in.AddListener(func(done *Future[V]) {
		if done.cell.isSuccess() {
			v, _ := done.GetNow()
			out.TrySucceed(v)
			return
		}
		if done.cell.isCancelled() {
			propagateTerminal(done, out)
			return
		}
		cause := done.Cause()
		matched, ok := selector(cause)
		if !ok {
			out.TryFail(cause)
			return
		}
		v, err := safeApply(f, matched)
		if err != nil {
			out.TryFail(err)
			return
		}
		out.TrySucceed(v)
	})
	return out
}

// OnErrorResume is FlatMap's mirror image applied to failure: on in's
// non-cancellation failure, f(cause) returns an alternate Future whose
// outcome becomes the output's; on success, the value passes through
// unchanged (spec §4.6 on_error_resume(f)).
func OnErrorResume[V any](in *Future[V], f func(error) *Future[V], opts ...Option) *Future[V] {
	merged := inheritedOptions(in, opts)
	out := NewSettable[V](merged...)
	wireCancelPropagation(in, out)

	in.AddListener(func(done *Future[V]) {
		if done.cell.isSuccess() {
			v, _ := done.GetNow()
			out.TrySucceed(v)
			return
		}
		if done.cell.isCancelled() {
			propagateTerminal(done, out)
			return
		}
		inner, err := safeInvokeResume(f, done.Cause())
		if err != nil {
			out.TryFail(err)
			return
		}
		wireCancelPropagation(inner, out)
		inner.AddListener(func(md *Future[V]) {
			if md.cell.isSuccess() {
				v, _ := md.GetNow()
				out.TrySucceed(v)
				return
			}
			propagateTerminal(md, out)
		})
	})
	return out
}

func safeInvokeResume[V any](f func(error) *Future[V], cause error) (inner *Future[V], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToError(r)
		}
	}()
	inner = f(cause)
	if inner == nil {
		err = ErrNilTask
	}
	return inner, err
}
