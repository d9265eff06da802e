package gofuture

import (
	"testing"
)

func TestProgressiveFuture_SetAndReadProgress(t *testing.T) {
	p := NewProgressive(NewSettable[int]())

	if err := p.SetProgress(3, 10); err != nil {
		t.Fatalf("SetProgress() error = %v", err)
	}
	current, total := p.Progress()
	if current != 3 || total != 10 {
		t.Errorf("Progress() = %d/%d, want 3/10", current, total)
	}
}

func TestProgressiveFuture_RejectsCurrentAboveTotal(t *testing.T) {
	p := NewProgressive(NewSettable[int]())

	if err := p.SetProgress(20, 10); err != ErrInvalidProgress {
		t.Errorf("SetProgress() error = %v, want ErrInvalidProgress", err)
	}
}

func TestProgressiveFuture_RejectsNegativeCurrent(t *testing.T) {
	p := NewProgressive(NewSettable[int]())

	if err := p.SetProgress(-1, 10); err != ErrInvalidProgress {
		t.Errorf("SetProgress() error = %v, want ErrInvalidProgress", err)
	}
}

func TestProgressiveFuture_NegativeTotalIsUnknownAndUnbounded(t *testing.T) {
	p := NewProgressive(NewSettable[int]())

	if err := p.SetProgress(1_000_000, -1); err != nil {
		t.Fatalf("SetProgress() error = %v", err)
	}
	current, total := p.Progress()
	if current != 1_000_000 || total != -1 {
		t.Errorf("Progress() = %d/%d, want unclamped against unknown total", current, total)
	}
}

func TestProgressiveFuture_RejectsUpdateAfterCompletion(t *testing.T) {
	f := NewSettable[int]()
	p := NewProgressive(f)
	f.TrySucceed(1)

	if err := p.SetProgress(1, 1); err != ErrIllegalState {
		t.Errorf("SetProgress() error = %v, want ErrIllegalState", err)
	}
}

func TestProgressiveFuture_OnProgressFiresOnUpdate(t *testing.T) {
	p := NewProgressive(NewSettable[int]())

	var got []int64
	p.OnProgress(func(current, total int64) {
		got = append(got, current)
	})

	p.SetProgress(1, 10)
	p.SetProgress(2, 10)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got = %v, want [1 2]", got)
	}
}
