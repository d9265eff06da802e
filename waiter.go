package gofuture

import (
	"runtime"
	"sync/atomic"
	"time"
)

// waiterNode is a Waiter (spec §3.2): a pair of (parking gate, next).
// Nodes form a singly-linked intrusive Treiber stack whose head is an
// atomic pointer stored on the owning Future. A node's gate is set to
// nil to signal removal; stale nodes are unspliced opportunistically
// during removal traversal.
//
// Go has no public primitive to park and interrupt an arbitrary OS
// thread, so the "thread_handle" of spec §3.2 is realised here as a
// buffered channel of capacity 1: parking is a receive, waking is a
// non-blocking send (SPEC_FULL.md §4, Waiter Stack substitution).
type waiterNode struct {
	gate atomic.Pointer[chan struct{}]
	next *waiterNode
}

func newWaiterNode() *waiterNode {
	ch := make(chan struct{}, 1)
	n := &waiterNode{}
	n.gate.Store(&ch)
	return n
}

// wake performs a single non-blocking unpark of this node's goroutine.
// Idempotent: a second call finds the channel already has/had its token
// and does nothing further of consequence.
func (n *waiterNode) wake() {
	if g := n.gate.Load(); g != nil {
		select {
		case *g <- struct{}{}:
		default:
		}
	}
}

// clear marks the node as removed so stack traversals can unsplice it.
func (n *waiterNode) clear() {
	n.gate.Store(nil)
}

func (n *waiterNode) isCleared() bool {
	return n.gate.Load() == nil
}

// waiterStack is the lock-free stack of parked goroutines described in
// spec §4.2. head is an atomic pointer on the owning Future; push is a
// CAS loop, drainAndWake runs exactly once after the terminal
// transition, and removeStale unlinks the node of a goroutine that has
// stopped waiting (parkUntilDone calls it on every return, including an
// early one on timeout or context cancellation) so nodes do not leak.
type waiterStack struct {
	head atomic.Pointer[waiterNode]
}

func (s *waiterStack) push(n *waiterNode) {
	for {
		old := s.head.Load()
		n.next = old
		if s.head.CompareAndSwap(old, n) {
			return
		}
	}
}

// drainAndWake is invoked once, after a terminal transition (spec
// §4.2). It detaches the whole stack with a single atomic swap, then wakes
// every still-live node. Wake order is LIFO and is explicitly not
// required to be stable (spec §4.2).
func (s *waiterStack) drainAndWake() {
	head := s.head.Swap(nil)
	for n := head; n != nil; n = n.next {
		n.wake()
		n.clear()
	}
}

// removeStale clears node and then retraverses the stack splicing out
// any node whose gate has been cleared. No CAS is required for the
// interior unsplicing: it is harmless if a concurrent drainAndWake
// observes a stale link, because it also skips cleared nodes (spec
// §4.2 edge case list).
func (s *waiterStack) removeStale(node *waiterNode) {
	node.clear()

restart:
	prev := (*waiterNode)(nil)
	cur := s.head.Load()
	for cur != nil {
		if cur.isCleared() {
			next := cur.next
			if prev == nil {
				if !s.head.CompareAndSwap(cur, next) {
					goto restart
				}
			} else {
				prev.next = next
			}
			cur = next
			continue
		}
		prev = cur
		cur = cur.next
	}
}

// parkUntilDone busy-loops per spec §4.2's park_until_done branches,
// returning the final (non-transient) state once the cell leaves
// Incomplete, or early with ok == false if the deadline elapses first
// or ctx is done. deadline.IsZero() means wait indefinitely.
func parkUntilDone[V any](c *stateCell[V], stack *waiterStack, deadline time.Time, done <-chan struct{}) (futureState, bool) {
	var node *waiterNode
	var pushed bool
	var deadlineSet = !deadline.IsZero()

	defer func() {
		if node != nil {
			stack.removeStale(node)
		}
	}()

	for {
		s := c.state.load()
		if s.isDone() {
			return s, true
		}
		if s.isTransient() {
			runtime.Gosched()
			continue
		}

		select {
		case <-done:
			return c.state.load(), false
		default:
		}

		if node == nil {
			node = newWaiterNode()
			if deadlineSet && !time.Now().Before(deadline) {
				return c.state.load(), false
			}
		}
		if !pushed {
			stack.push(node)
			pushed = true
		}

		gate := node.gate.Load()
		if gate == nil {
			// Woken and cleared between our push and this read; loop
			// to observe the (by now done) state.
			continue
		}

		if deadlineSet {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return c.state.load(), false
			}
			timer := time.NewTimer(remaining)
			select {
			case <-*gate:
				timer.Stop()
			case <-timer.C:
			case <-done:
				timer.Stop()
				return c.state.load(), false
			}
		} else {
			select {
			case <-*gate:
			case <-done:
				return c.state.load(), false
			}
		}
	}
}
