package gofuture

import (
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
)

// Combiner tracks a fixed set of input Futures and exposes a readiness
// Future that settles once the set has reached its terminal state,
// under one of two policies (spec §4.6):
//
//   - WhenAllComplete waits for every input to finish, succeeding once
//     all have, or failing with the joined causes of every input that
//     failed.
//   - WhenAllSucceed succeeds once every input has succeeded, but
//     short-circuits the moment any input fails or is cancelled,
//     cancelling every other input with mayInterrupt=true.
//
// Call, Run and Combine build on top of a Combiner's readiness to
// produce the actual result Future.
type Combiner struct {
	ready    *Future[struct{}]
	executor Executor
	logger   Logger
}

func newCombiner(succeedMode bool, futures []Awaitable) *Combiner {
	executor := DefaultExecutor()
	logger := DefaultLogger()
	c := &Combiner{
		ready:    NewSettable[struct{}](WithExecutor(executor), WithLogger(logger)),
		executor: executor,
		logger:   logger,
	}

	if len(futures) == 0 {
		c.ready.TrySucceed(struct{}{})
		return c
	}

	remaining := int64(len(futures))
	var remainingCount atomic.Int64
	remainingCount.Store(remaining)

	var shortCircuited atomic.Bool
	var errsMu sync.Mutex
	var errs []error

	for _, in := range futures {
		in := in
		in.addRawListener(func(done Awaitable) {
			if succeedMode {
				if done.IsFailed() {
					if shortCircuited.CompareAndSwap(false, true) {
						for _, other := range futures {
							other.Cancel(true)
						}
						if done.IsCancelled() {
							c.ready.Cancel(false)
						} else {
							c.ready.TryFail(done.Cause())
						}
					}
					return
				}
			} else if done.IsFailed() {
				errsMu.Lock()
				errs = append(errs, done.Cause())
				errsMu.Unlock()
			}

			if remainingCount.Add(-1) == 0 {
				if succeedMode {
					c.ready.TrySucceed(struct{}{})
					return
				}
				errsMu.Lock()
				joined := multierr.Combine(errs...)
				errsMu.Unlock()
				if joined != nil {
					c.ready.TryFail(joined)
				} else {
					c.ready.TrySucceed(struct{}{})
				}
			}
		})
	}

	return c
}

// WhenAllComplete returns a Combiner whose readiness settles once every
// one of futures has reached a terminal state, regardless of outcome
// (spec §4.6 when_all_complete(futures...)). An empty futures set
// completes immediately.
func WhenAllComplete(futures ...Awaitable) *Combiner {
	return newCombiner(false, futures)
}

// WhenAllSucceed returns a Combiner whose readiness succeeds once every
// one of futures has succeeded, or fails/cancels as soon as the first
// one does, cancelling the rest (spec §4.6 when_all_succeed(futures...)).
// An empty futures set succeeds immediately.
func WhenAllSucceed(futures ...Awaitable) *Combiner {
	return newCombiner(true, futures)
}

// Call runs fn once c's readiness settles successfully, on c's
// executor, and returns a Future of fn's result. If c's readiness
// fails or is cancelled, fn never runs and the result adopts that
// outcome (spec §4.6 combiner.call(callable)).
func Call[V any](c *Combiner, fn func() (V, error)) *Future[V] {
	return FlatMap(c.ready, func(struct{}) *Future[V] {
		t := NewTask(func(_ <-chan struct{}) (V, error) {
			return fn()
		}, WithExecutor(c.executor), WithLogger(c.logger))
		t.Run()
		return t.Future
	}, WithExecutor(c.executor), WithLogger(c.logger))
}

// Run is Call for an action with no result value
// (spec §4.6 combiner.run(action)).
func Run(c *Combiner, action func() error) *Future[struct{}] {
	return Call(c, func() (struct{}, error) {
		return struct{}{}, action()
	})
}

// Combine returns c's own readiness Future directly: success carries
// no value, and failure carries either the short-circuiting input's
// cause (WhenAllSucceed) or every failed input's causes joined with
// multierr (WhenAllComplete) (spec §4.6 combiner.combine()).
func (c *Combiner) Combine() *Future[struct{}] {
	return c.ready
}
