package gofuture

// Map returns a new Future that completes with f(value) once in
// succeeds, with the mapper's error if f fails, or with in's own
// failure if in fails (spec §4.6 map(f)).
//
// As a fast path, if in is already successfully completed, a trivial
// "apply f" task is submitted directly to the Executor rather than
// building a listener chain; if in is already failed (including
// cancelled), the failure is propagated to a pre-completed output
// immediately.
func Map[V, R any](in *Future[V], f func(V) (R, error), opts ...Option) *Future[R] {
	merged := inheritedOptions(in, opts)

	if in.IsDone() {
		if v, ok := in.GetNow(); ok {
			return mapApplyAsync(v, f, merged)
		}
		out := NewSettable[R](merged...)
		propagateTerminal(in, out)
		return out
	}

	out := NewSettable[R](merged...)
	wireCancelPropagation(in, out)
	in.AddListener(func(done *Future[V]) {
		if !done.cell.isSuccess() {
			propagateTerminal(done, out)
			return
		}
		v, _ := done.GetNow()
		r, err := safeApply(f, v)
		if err != nil {
			out.TryFail(err)
			return
		}
		out.TrySucceed(r)
	})
	return out
}

// mapApplyAsync implements Map's already-succeeded fast path: submit a
// trivial apply task to the output's Executor. If the executor rejects
// the submission, the rejection is logged and the mapper runs inline so
// the output still completes (spec §6 tolerates rejection for
// listener-style notifications; for a fast-path completion there is no
// other producer left to finish the output, so falling back inline
// avoids leaving it permanently Incomplete).
func mapApplyAsync[V, R any](v V, f func(V) (R, error), opts []Option) *Future[R] {
	out := NewSettable[R](opts...)
	apply := func() {
		r, err := safeApply(f, v)
		if err != nil {
			out.TryFail(err)
			return
		}
		out.TrySucceed(r)
	}
	if err := out.executor.Submit(apply); err != nil {
		out.logger.Warn("gofuture: executor rejected map fast path, running inline", "error", err)
		apply()
	}
	return out
}
