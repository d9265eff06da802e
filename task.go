package gofuture

import (
	"runtime"
	"sync/atomic"
)

// Task is a Task Future (spec §4.5): a Future whose outcome is the
// result of running an embedded callable (or action plus fixed result)
// on an Executor. It embeds *Future[V] and adds Run/interruptTask,
// exactly the "thin Task wrapper" shape spec.md §9 calls for.
type Task[V any] struct {
	*Future[V]

	fn      func(interrupt <-chan struct{}) (V, error)
	started boolFlag

	// interruptCh is closed at most once, by interruptTask, to signal
	// a running task's goroutine that cancellation with
	// mayInterrupt=true was requested. Go has no public mechanism to
	// interrupt an arbitrary goroutine, so a cooperative channel is
	// the idiomatic substitute (SPEC_FULL.md §4).
	interruptCh chan struct{}
}

// boolFlag is a tiny CAS-guarded latch, used here only to ensure a
// Task's callable runs at most once regardless of how many times Run
// is invoked.
type boolFlag struct{ v atomic.Bool }

func (b *boolFlag) tryset() bool {
	return b.v.CompareAndSwap(false, true)
}

// NewTask creates a Task whose callable receives an interrupt channel
// it should select on to react to cancellation. The task does not run
// until Run is called, or it is submitted via NewTaskAndRun. Panics if
// fn is nil.
func NewTask[V any](fn func(interrupt <-chan struct{}) (V, error), opts ...Option) *Task[V] {
	if fn == nil {
		panic(ErrNilTask)
	}
	f := NewSettable[V](opts...)
	t := &Task[V]{
		Future:      f,
		fn:          fn,
		interruptCh: make(chan struct{}),
	}
	f.cell.interruptFn = t.interruptTask
	return t
}

// NewTaskFromAction wraps an action (which produces no value of its
// own) and a fixed result into the callable shape NewTask expects,
// mirroring Java's ExecutorService.submit(Runnable, V) convenience
// overload referenced in spec §4.5 ("callable or action+fixed result V").
func NewTaskFromAction[V any](action func(interrupt <-chan struct{}) error, result V, opts ...Option) *Task[V] {
	if action == nil {
		panic(ErrNilTask)
	}
	return NewTask(func(interrupt <-chan struct{}) (V, error) {
		if err := action(interrupt); err != nil {
			var zero V
			return zero, err
		}
		return result, nil
	}, opts...)
}

// NewTaskAndRun creates a Task and immediately submits it to exec.
func NewTaskAndRun[V any](exec Executor, fn func(interrupt <-chan struct{}) (V, error), opts ...Option) (*Task[V], error) {
	t := NewTask(fn, opts...)
	if err := exec.Submit(t.Run); err != nil {
		return nil, err
	}
	return t, nil
}

// Run executes the task's callable if it has not already started,
// completing the embedded Future with the result. A task runs at most
// once (spec §4.5 guarantee); calling Run again is a no-op. If a
// concurrent Cancel has already moved the Future out of Incomplete,
// TrySucceed/TryFail below simply lose the race and the computed result
// is discarded — this is how "cancel wins" is realised, rather than a
// second CAS racing the state cell directly.
func (t *Task[V]) Run() {
	if !t.started.tryset() {
		return
	}
	if t.cell.isDone() {
		return
	}

	fn := t.fn
	t.fn = nil // release closed-over state once the call is dispatched

	v, err := fn(t.interruptCh)
	if err != nil {
		t.TryFail(err)
	} else {
		t.TrySucceed(v)
	}

	// A cancel(true) that raced with the tail of fn's execution may
	// have observed Incomplete moments before try_succeed/try_fail,
	// winning the transition to Interrupting. Spin until it reaches
	// Interrupted so the interrupt is guaranteed delivered to this
	// goroutine (via interruptCh) before Run returns (spec §4.5).
	for t.cell.state.load() == stateInterrupting {
		runtime.Gosched()
	}
}

// interruptTask is installed as the state cell's interruptFn and is
// invoked at most once, by Cancel(true). It closes interruptCh so the
// running callable's select on it unblocks.
func (t *Task[V]) interruptTask() {
	select {
	case <-t.interruptCh:
	default:
		close(t.interruptCh)
	}
}
