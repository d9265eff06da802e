package gofuture

import "sync"

// listener is a Listener (spec §3.3): either a zero-context callback or
// a context-bearing one.
type listener[V any] struct {
	plain func(*Future[V])
	withC func(*Future[V], any)
	ctx   any
}

func (l listener[V]) invoke(f *Future[V]) {
	if l.plain != nil {
		l.plain(f)
		return
	}
	l.withC(f, l.ctx)
}

// listenerRegistry is the Listener Registry of spec §4.3: a tagged
// none/single/many union guarded by a per-instance monitor, notified
// through the snapshot-and-loop protocol so that every listener fires
// exactly once, listeners added mid-notification still fire, and two
// notification passes for the same Future never run concurrently.
type listenerRegistry[V any] struct {
	mu        sync.Mutex
	hasSingle bool
	single    listener[V]
	many      []listener[V]
	notifying bool
}

// add appends l, promoting none->single->many on the second addition.
func (r *listenerRegistry[V]) add(l listener[V]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.many != nil:
		r.many = append(r.many, l)
	case r.hasSingle:
		r.many = append(r.many, r.single, l)
		r.hasSingle = false
		var zero listener[V]
		r.single = zero
	default:
		r.single = l
		r.hasSingle = true
	}
}

func (r *listenerRegistry[V]) detachLocked() []listener[V] {
	if r.many != nil {
		batch := r.many
		r.many = nil
		return batch
	}
	if r.hasSingle {
		l := r.single
		r.hasSingle = false
		var zero listener[V]
		r.single = zero
		return []listener[V]{l}
	}
	return nil
}

func (r *listenerRegistry[V]) isEmptyLocked() bool {
	return !r.hasSingle && len(r.many) == 0
}

// notify runs the snapshot-and-loop protocol described in spec §4.3. It
// is safe to call redundantly (from both the completing goroutine and
// any racing AddListener caller); the notifying flag ensures only one
// pass runs at a time, and that pass loops until the registry is
// observed empty under the lock before releasing the flag.
func (r *listenerRegistry[V]) notify(f *Future[V], exec Executor, logger Logger) {
	r.mu.Lock()
	if r.notifying {
		r.mu.Unlock()
		return
	}
	r.notifying = true
	for {
		batch := r.detachLocked()
		r.mu.Unlock()

		for _, l := range batch {
			dispatchListener(exec, logger, f, l)
		}

		r.mu.Lock()
		if r.isEmptyLocked() {
			r.notifying = false
			r.mu.Unlock()
			return
		}
	}
}

// dispatchListener submits l to exec for execution. A rejected
// submission is logged and the notification dropped (spec §6); a
// listener body that panics is recovered, logged, and swallowed (spec
// §7 "Listener failure") without affecting sibling listeners or the
// Future's own outcome.
func dispatchListener[V any](exec Executor, logger Logger, f *Future[V], l listener[V]) {
	err := exec.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("gofuture: listener panicked", "panic", r, "stack", string(panicStack()))
			}
		}()
		l.invoke(f)
	})
	if err != nil {
		logger.Warn("gofuture: executor rejected listener submission", "error", err)
	}
}
