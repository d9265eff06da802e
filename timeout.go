package gofuture

import (
	"sync/atomic"
	"time"
)

// Cancelable is the handle returned by Scheduler.Schedule, allowing the
// caller to cancel a pending delayed work unit before it runs.
type Cancelable interface {
	Cancel() bool
}

// Scheduler schedules a delayed one-shot work unit (spec §6), used only
// by Timeout below. It does not include Executor's Submit; a Scheduler
// value is not usable as an Executor.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Cancelable
}

type schedulerFunc func(d time.Duration, fn func()) Cancelable

func (s schedulerFunc) Schedule(d time.Duration, fn func()) Cancelable { return s(d, fn) }

type timerCancelable struct{ t *time.Timer }

func (c timerCancelable) Cancel() bool { return c.t.Stop() }

// SchedulerOfTimer returns a Scheduler backed by time.AfterFunc. No
// library in the retrieval pack offers one-shot delayed scheduling
// (the pack's github.com/robfig/cron/v3, used elsewhere for recurring
// cron expressions, is not a fit for a single deadline) — see
// DESIGN.md for this ambient-stdlib justification.
func SchedulerOfTimer() Scheduler {
	return schedulerFunc(func(d time.Duration, fn func()) Cancelable {
		return timerCancelable{t: time.AfterFunc(d, fn)}
	})
}

var defaultScheduler atomic.Value

func init() {
	defaultScheduler.Store(SchedulerOfTimer())
}

// DefaultScheduler returns the process-wide default Scheduler.
func DefaultScheduler() Scheduler {
	return defaultScheduler.Load().(Scheduler)
}

// SetDefaultScheduler replaces the process-wide default Scheduler. A
// nil scheduler is ignored.
func SetDefaultScheduler(s Scheduler) {
	if s == nil {
		return
	}
	defaultScheduler.Store(s)
}

// Timeout returns a Future that adopts in's outcome, except that if d
// elapses first it fails the output with ErrTimeout and cancels in with
// mayInterrupt=true; if in completes first, the pending timeout task is
// cancelled (spec §4.6 timeout(duration, scheduler)).
func Timeout[V any](in *Future[V], d time.Duration, scheduler Scheduler, opts ...Option) *Future[V] {
	merged := inheritedOptions(in, opts)
	out := NewSettable[V](merged...)
	wireCancelPropagation(in, out)

	var settled atomic.Bool
	var pending atomic.Pointer[Cancelable]

	c := scheduler.Schedule(d, func() {
		if settled.CompareAndSwap(false, true) {
			out.TryFail(ErrTimeout)
			in.Cancel(true)
		}
	})
	pending.Store(&c)

	in.AddListener(func(done *Future[V]) {
		if !settled.CompareAndSwap(false, true) {
			return
		}
		if cp := pending.Load(); cp != nil {
			(*cp).Cancel()
		}
		if done.cell.isSuccess() {
			v, _ := done.GetNow()
			out.TrySucceed(v)
			return
		}
		propagateTerminal(done, out)
	})

	return out
}
