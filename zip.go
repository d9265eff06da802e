package gofuture

import "sync/atomic"

// Pair holds the combined result of Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip returns a Future that completes with both a's and b's values once
// they both succeed (spec §4.6 zip(other), via ZipWith).
func Zip[A, B any](a *Future[A], b *Future[B], opts ...Option) *Future[Pair[A, B]] {
	return ZipWith(a, b, func(av A, bv B) (Pair[A, B], error) {
		return Pair[A, B]{First: av, Second: bv}, nil
	}, opts...)
}

// ZipWith awaits both a and b. If either fails or is cancelled, the
// output adopts whichever terminal non-success outcome is observed
// first (spec §4.6 zip_with(other, combinator)). On both successes the
// output is combine(a, b); a panicking combinator fails the output.
// Cancelling the output cancels both inputs.
func ZipWith[A, B, R any](a *Future[A], b *Future[B], combine func(A, B) (R, error), opts ...Option) *Future[R] {
	merged := inheritedOptions(a, opts)
	out := NewSettable[R](merged...)

	out.AddListener(func(o *Future[R]) {
		if o.cell.isCancelled() {
			a.Cancel(true)
			b.Cancel(true)
		}
	})

	var settled atomic.Bool
	tryCombine := func() {
		if !a.cell.isSuccess() || !b.cell.isSuccess() {
			return
		}
		if !settled.CompareAndSwap(false, true) {
			return
		}
		av, _ := a.GetNow()
		bv, _ := b.GetNow()
		r, err := safeApply2(combine, av, bv)
		if err != nil {
			out.TryFail(err)
			return
		}
		out.TrySucceed(r)
	}

	a.AddListener(func(ad *Future[A]) {
		if !ad.cell.isSuccess() {
			if settled.CompareAndSwap(false, true) {
				propagateTerminal(ad, out)
			}
			return
		}
		tryCombine()
	})
	b.AddListener(func(bd *Future[B]) {
		if !bd.cell.isSuccess() {
			if settled.CompareAndSwap(false, true) {
				propagateTerminal(bd, out)
			}
			return
		}
		tryCombine()
	})

	return out
}
