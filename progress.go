package gofuture

import (
	"sync"
)

// ProgressiveFuture decorates a Future[V] with an optional current/total
// progress readout, for long-running Task Futures that want to report
// partial completion (spec §6 "Optional progress capability"). It embeds
// *Future[V], so every Core Future operation is still available directly.
type ProgressiveFuture[V any] struct {
	*Future[V]

	mu       sync.Mutex
	current  int64
	total    int64
	watchers []func(current, total int64)
}

// NewProgressive wraps in with progress tracking. It does not take
// ownership of in's completion; callers still complete in the normal
// way (TrySucceed/TryFail/Cancel, or via a Task).
func NewProgressive[V any](in *Future[V]) *ProgressiveFuture[V] {
	return &ProgressiveFuture[V]{Future: in}
}

// SetProgress records the current/total pair and notifies every
// registered watcher. A negative total denotes "unknown total", in
// which case any non-negative current is accepted; otherwise current
// must satisfy 0 <= current <= total or the update is rejected with
// ErrInvalidProgress. Returns ErrIllegalState if the underlying Future
// has already completed, since progress on a finished unit of work is
// meaningless.
func (p *ProgressiveFuture[V]) SetProgress(current, total int64) error {
	if p.IsDone() {
		return ErrIllegalState
	}
	if current < 0 {
		return ErrInvalidProgress
	}
	if total >= 0 && current > total {
		return ErrInvalidProgress
	}

	p.mu.Lock()
	p.current, p.total = current, total
	watchers := append([]func(int64, int64){}, p.watchers...)
	p.mu.Unlock()

	for _, w := range watchers {
		w(current, total)
	}
	return nil
}

// Progress returns the most recently recorded current/total pair.
func (p *ProgressiveFuture[V]) Progress() (current, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.total
}

// OnProgress registers cb to run, synchronously on the calling
// goroutine's SetProgress call, on every subsequent progress update. It
// does not replay the most recent update; callers that need the
// current value should also call Progress.
func (p *ProgressiveFuture[V]) OnProgress(cb func(current, total int64)) {
	p.mu.Lock()
	p.watchers = append(p.watchers, cb)
	p.mu.Unlock()
}
