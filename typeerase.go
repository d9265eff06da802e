package gofuture

// Awaitable is a type-erased view of a Future[V], exposing the state
// queries and cancellation a Combiner needs without committing to a
// single value type, since WhenAllComplete/WhenAllSucceed accept
// Futures of differing V (spec §4.6 "a heterogeneous set of input
// Futures"). Obtain one with Erase.
type Awaitable interface {
	IsDone() bool
	IsSuccess() bool
	IsFailed() bool
	IsCancelled() bool
	Cancel(mayInterrupt bool) bool
	Cause() error
	addRawListener(fn func(Awaitable))
}

type futureAdapter[V any] struct {
	*Future[V]
}

func (a futureAdapter[V]) addRawListener(fn func(Awaitable)) {
	a.Future.AddListener(func(done *Future[V]) {
		fn(futureAdapter[V]{done})
	})
}

// Erase wraps f as an Awaitable for use with WhenAllComplete and
// WhenAllSucceed.
func Erase[V any](f *Future[V]) Awaitable {
	return futureAdapter[V]{f}
}
