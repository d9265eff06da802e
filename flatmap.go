package gofuture

// FlatMap returns a new Future that completes with the outcome of the
// inner Future f(value) produces once in succeeds (spec §4.6
// flat_map(f)): if the inner Future is already succeeded it completes
// the output immediately; if already failed or cancelled it propagates;
// if incomplete, a pass-through listener from inner to output and a
// cancel-propagation listener from output to inner are installed. Since
// AddListener already fires immediately for an already-done Future,
// all three inner sub-cases are handled by the single listener
// registration below.
func FlatMap[V, R any](in *Future[V], f func(V) *Future[R], opts ...Option) *Future[R] {
	merged := inheritedOptions(in, opts)
	out := NewSettable[R](merged...)
	wireCancelPropagation(in, out)

	in.AddListener(func(done *Future[V]) {
		if !done.cell.isSuccess() {
			propagateTerminal(done, out)
			return
		}
		v, _ := done.GetNow()
		inner, err := safeInvokeFlatMap(f, v)
		if err != nil {
			out.TryFail(err)
			return
		}
		wireCancelPropagation(inner, out)
		inner.AddListener(func(md *Future[R]) {
			if md.cell.isSuccess() {
				rv, _ := md.GetNow()
				out.TrySucceed(rv)
				return
			}
			propagateTerminal(md, out)
		})
	})
	return out
}

// safeInvokeFlatMap recovers a panicking mapper function into an error,
// the same convention Map's safeApply uses.
func safeInvokeFlatMap[V, R any](f func(V) *Future[R], v V) (inner *Future[R], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToError(r)
		}
	}()
	inner = f(v)
	if inner == nil {
		err = ErrNilTask
	}
	return inner, err
}
