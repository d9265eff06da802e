package gofuture

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewSettable(t *testing.T) {
	t.Run("starts incomplete", func(t *testing.T) {
		f := NewSettable[int]()
		if f.IsDone() {
			t.Error("fresh Future should not be done")
		}
		if !f.IsCancellable() {
			t.Error("fresh Future should be cancellable")
		}
	})
}

func TestSucceededAndFailed(t *testing.T) {
	t.Run("Succeeded is already done", func(t *testing.T) {
		f := Succeeded(42)
		if !f.IsSuccess() {
			t.Error("should be success")
		}
		v, ok := f.GetNow()
		if !ok || v != 42 {
			t.Errorf("GetNow = %d, %v, want 42, true", v, ok)
		}
	})

	t.Run("Failed is already done", func(t *testing.T) {
		boom := errors.New("boom")
		f := Failed[int](boom)
		if !f.IsFailed() {
			t.Error("should be failed")
		}
		if f.Cause() != boom {
			t.Errorf("Cause() = %v, want %v", f.Cause(), boom)
		}
	})
}

func TestTrySucceedTryFail(t *testing.T) {
	t.Run("TrySucceed wins once", func(t *testing.T) {
		f := NewSettable[int]()
		if !f.TrySucceed(1) {
			t.Fatal("first TrySucceed should win")
		}
		if f.TrySucceed(2) {
			t.Error("second TrySucceed should lose")
		}
		v, _ := f.GetNow()
		if v != 1 {
			t.Errorf("value = %d, want 1", v)
		}
	})

	t.Run("TryFail panics on nil error", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic on nil error")
			}
		}()
		NewSettable[int]().TryFail(nil)
	})

	t.Run("SetSuccess panics when already done", func(t *testing.T) {
		f := NewSettable[int]()
		f.SetSuccess(1)
		defer func() {
			if recover() == nil {
				t.Error("expected panic on double SetSuccess")
			}
		}()
		f.SetSuccess(2)
	})
}

func TestCancel(t *testing.T) {
	t.Run("cancel before completion succeeds", func(t *testing.T) {
		f := NewSettable[int]()
		if !f.Cancel(false) {
			t.Fatal("cancel should win")
		}
		if !f.IsCancelled() {
			t.Error("should be cancelled")
		}
		if !errors.Is(f.Cause(), ErrCancelled) {
			t.Error("cause should satisfy errors.Is(ErrCancelled)")
		}
	})

	t.Run("cancel after completion fails", func(t *testing.T) {
		f := Succeeded(1)
		if f.Cancel(false) {
			t.Error("cancel should lose against a completed Future")
		}
	})
}

func TestAwaitAndGet(t *testing.T) {
	t.Run("Get blocks until success", func(t *testing.T) {
		f := NewSettable[string]()
		go func() {
			time.Sleep(20 * time.Millisecond)
			f.TrySucceed("hi")
		}()

		v, err := f.Get(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "hi" {
			t.Errorf("v = %q, want %q", v, "hi")
		}
	})

	t.Run("Get wraps failure in ExecutionError", func(t *testing.T) {
		boom := errors.New("boom")
		f := Failed[int](boom)

		_, err := f.Get(context.Background())
		var ee *ExecutionError
		if !errors.As(err, &ee) {
			t.Fatalf("expected *ExecutionError, got %v", err)
		}
		if !errors.Is(err, boom) {
			t.Error("ExecutionError should unwrap to the original cause")
		}
	})

	t.Run("Get returns cancellation cause directly, unwrapped", func(t *testing.T) {
		f := NewSettable[int]()
		f.Cancel(false)

		_, err := f.Get(context.Background())
		var ee *ExecutionError
		if errors.As(err, &ee) {
			t.Error("a cancellation cause should not be wrapped in ExecutionError")
		}
		if !errors.Is(err, ErrCancelled) {
			t.Error("expected the cancellation cause")
		}
	})

	t.Run("Sync never wraps", func(t *testing.T) {
		boom := errors.New("boom")
		f := Failed[int](boom)

		_, err := f.Sync(context.Background())
		if err != boom {
			t.Errorf("Sync() error = %v, want %v", err, boom)
		}
	})

	t.Run("Await respects context deadline", func(t *testing.T) {
		f := NewSettable[int]()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := f.Await(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Await() error = %v, want DeadlineExceeded", err)
		}
	})

	t.Run("Await returns nil once done even under a live context", func(t *testing.T) {
		f := Succeeded(1)
		if err := f.Await(context.Background()); err != nil {
			t.Errorf("Await() error = %v, want nil", err)
		}
	})
}

func TestToChannel(t *testing.T) {
	f := NewSettable[int]()
	ch := f.ToChannel()

	go f.TrySucceed(5)

	select {
	case outcome := <-ch:
		if outcome.Value != 5 || outcome.Err != nil || outcome.Cancelled {
			t.Errorf("outcome = %+v, want Value=5", outcome)
		}
	case <-time.After(time.Second):
		t.Fatal("ToChannel never delivered")
	}

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after delivering its one outcome")
	}
}

func TestOnSuccessOnFailure(t *testing.T) {
	t.Run("OnSuccess fires only on success", func(t *testing.T) {
		f := Succeeded(3)
		fired := make(chan int, 1)
		f.OnSuccess(func(v int) { fired <- v })
		f.OnFailure(func(error) { t.Error("OnFailure should not fire") })

		select {
		case v := <-fired:
			if v != 3 {
				t.Errorf("v = %d, want 3", v)
			}
		case <-time.After(time.Second):
			t.Fatal("OnSuccess never fired")
		}
	})

	t.Run("OnFailure fires on cancellation too", func(t *testing.T) {
		f := NewSettable[int]()
		f.Cancel(false)

		fired := make(chan error, 1)
		f.OnFailure(func(err error) { fired <- err })

		select {
		case err := <-fired:
			if !errors.Is(err, ErrCancelled) {
				t.Errorf("err = %v, want ErrCancelled", err)
			}
		case <-time.After(time.Second):
			t.Fatal("OnFailure never fired")
		}
	})
}

func TestAddListenerNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on nil listener")
		}
	}()
	NewSettable[int]().AddListener(nil)
}
