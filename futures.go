package gofuture

// Map2 combines two Futures with a two-argument function once both
// succeed, failing or cancelling as soon as either does (SPEC_FULL.md
// §3 supplemented feature). It is ZipWith under another name: f may fail
// by returning an error or by panicking.
func Map2[A, B, R any](a *Future[A], b *Future[B], f func(A, B) (R, error), opts ...Option) *Future[R] {
	return ZipWith(a, b, f, opts...)
}

// CollectAll waits for every Future in futures to succeed and returns
// their values in the same order, short-circuiting on the first
// failure or cancellation and cancelling every other input
// (SPEC_FULL.md §3 supplemented feature, built on WhenAllSucceed).
func CollectAll[V any](futures []*Future[V], opts ...Option) *Future[[]V] {
	if len(futures) == 0 {
		return Succeeded[[]V](nil, opts...)
	}

	erased := make([]Awaitable, len(futures))
	for i, f := range futures {
		erased[i] = Erase(f)
	}
	combiner := WhenAllSucceed(erased...)

	result := Call(combiner, func() ([]V, error) {
		values := make([]V, len(futures))
		for i, f := range futures {
			v, _ := f.GetNow()
			values[i] = v
		}
		return values, nil
	})

	if len(opts) > 0 {
		merged := inheritedOptions(futures[0], opts)
		retyped := NewSettable[[]V](merged...)
		CascadeTo(result, retyped)
		return retyped
	}
	return result
}
