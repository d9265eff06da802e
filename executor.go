package gofuture

import (
	"runtime/debug"
	"sync/atomic"

	"github.com/gammazero/workerpool"
	"github.com/panjf2000/ants/v2"
	conc "github.com/sourcegraph/conc/pool"
)

// Executor is the external capability a Future submits listener and
// task work to (spec §6). The core never schedules work itself; it
// only calls Submit and tolerates rejection.
type Executor interface {
	// Submit accepts a work unit and runs it later. A non-nil error
	// means the unit was rejected (e.g. the executor is shutting down);
	// the caller logs and drops the associated notification without
	// affecting any Future's outcome.
	Submit(fn func()) error
}

// executorAdapter turns a plain submit function into an Executor,
// mirroring the teacher's poolAdapter/poolWrapper shape
// (Tangerg-lynx/pkg/sync/pool.go, Tangerg-lynx/future/pool.go).
type executorAdapter func(fn func()) error

func (a executorAdapter) Submit(fn func()) error { return a(fn) }

var defaultExecutor atomic.Value

func init() {
	defaultExecutor.Store(ExecutorOfGoroutines())
}

// DefaultExecutor returns the process-wide default Executor, initialised
// at package load to ExecutorOfGoroutines and replaceable with
// SetDefaultExecutor. It is used by any Future constructed without an
// explicit Executor.
func DefaultExecutor() Executor {
	return defaultExecutor.Load().(Executor)
}

// SetDefaultExecutor replaces the process-wide default Executor. A nil
// executor is ignored.
func SetDefaultExecutor(e Executor) {
	if e == nil {
		return
	}
	defaultExecutor.Store(e)
}

// ExecutorOfGoroutines returns an Executor that launches a fresh
// goroutine per submission, with panic recovery so a listener panic
// can never crash the process. Grounded on
// Tangerg-lynx/future/pool.go's PoolOfGoroutines and
// Tangerg-lynx/pkg/safe/safe.go's Go/WithRecover helpers.
func ExecutorOfGoroutines() Executor {
	return executorAdapter(func(fn func()) error {
		go func() {
			defer func() {
				recover()
			}()
			fn()
		}()
		return nil
	})
}

// ExecutorOfAnts adapts a github.com/panjf2000/ants/v2 pool to
// Executor. Panics if pool is nil, matching the teacher's
// PoolOfAnts guard.
func ExecutorOfAnts(pool *ants.Pool) Executor {
	if pool == nil {
		panic("gofuture: ants pool is nil")
	}
	return executorAdapter(func(fn func()) error {
		return pool.Submit(fn)
	})
}

// ExecutorOfWorkerpool adapts a github.com/gammazero/workerpool pool to
// Executor. Panics if pool is nil.
func ExecutorOfWorkerpool(pool *workerpool.WorkerPool) Executor {
	if pool == nil {
		panic("gofuture: workerpool is nil")
	}
	return executorAdapter(func(fn func()) error {
		pool.Submit(fn)
		return nil
	})
}

// ExecutorOfConc adapts a github.com/sourcegraph/conc/pool pool to
// Executor. conc pools panic if a submitted function panics unless the
// pool was built WithRecover, so this adapter recovers locally as well
// to guarantee the "listener failure never surfaces on the Future"
// rule regardless of how the caller constructed the pool.
func ExecutorOfConc(pool *conc.Pool) Executor {
	if pool == nil {
		panic("gofuture: conc pool is nil")
	}
	return executorAdapter(func(fn func()) error {
		pool.Go(func() {
			defer func() {
				recover()
			}()
			fn()
		})
		return nil
	})
}

// panicStack captures the current goroutine's stack. dispatchListener
// includes it in the warning it logs through Logger for a panicking
// listener; the executor adapters above do not call it and recover
// panics silently.
func panicStack() []byte {
	return debug.Stack()
}
