package gofuture

import (
	"sync"
	"testing"
	"time"
)

func TestListenerRegistryPromotion(t *testing.T) {
	var r listenerRegistry[int]

	if !r.isEmptyLocked() {
		t.Fatal("fresh registry should be empty")
	}

	r.add(listener[int]{plain: func(*Future[int]) {}})
	if !r.hasSingle || r.many != nil {
		t.Error("first add should take the single slot")
	}

	r.add(listener[int]{plain: func(*Future[int]) {}})
	if r.hasSingle || len(r.many) != 2 {
		t.Error("second add should promote to many")
	}

	r.add(listener[int]{plain: func(*Future[int]) {}})
	if len(r.many) != 3 {
		t.Error("third add should append to many")
	}
}

func TestListenerRegistryNotifyFiresEveryListener(t *testing.T) {
	f := NewSettable[int](WithExecutor(ExecutorOfGoroutines()))

	var mu sync.Mutex
	var seen []int
	record := func(v int) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	}

	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		i := i
		f.AddListener(func(*Future[int]) {
			record(i)
			done <- struct{}{}
		})
	}

	f.TrySucceed(1)

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("not all listeners fired")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Errorf("expected 3 listeners to fire, got %d", len(seen))
	}
}

func TestListenerAddedAfterCompletionFiresImmediately(t *testing.T) {
	f := Succeeded[int](9, WithExecutor(ExecutorOfGoroutines()))

	fired := make(chan int, 1)
	f.AddListener(func(done *Future[int]) {
		v, _ := done.GetNow()
		fired <- v
	})

	select {
	case v := <-fired:
		if v != 9 {
			t.Errorf("listener saw %d, want 9", v)
		}
	case <-time.After(time.Second):
		t.Fatal("listener added post-completion never fired")
	}
}

func TestListenerRegisteredDuringNotificationStillFires(t *testing.T) {
	f := NewSettable[int](WithExecutor(ExecutorOfGoroutines()))

	second := make(chan struct{})
	f.AddListener(func(done *Future[int]) {
		done.AddListener(func(*Future[int]) {
			close(second)
		})
	})

	f.TrySucceed(1)

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("listener added mid-notification never fired")
	}
}
