package gofuture

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type notFoundError struct{ key string }

func (e *notFoundError) Error() string { return fmt.Sprintf("not found: %s", e.key) }

type wrappedError struct{ cause error }

func (e *wrappedError) Error() string { return "wrapped: " + e.cause.Error() }
func (e *wrappedError) Unwrap() error { return e.cause }

func TestErrorHandling_RecoversAnyFailure(t *testing.T) {
	boom := errors.New("boom")
	in := Failed[int](boom)
	out := ErrorHandling(in, func(cause error) (int, error) {
		require.ErrorIs(t, cause, boom)
		return -1, nil
	})

	v, err := out.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, -1, v)
}

func TestErrorHandling_CancellationPassesThroughUnchanged(t *testing.T) {
	in := NewSettable[int]()
	called := false
	out := ErrorHandling(in, func(cause error) (int, error) {
		called = true
		return 0, nil
	})

	in.Cancel(false)

	_, err := out.Sync(context.Background())
	require.True(t, IsCancellation(err))
	require.False(t, called, "cancellation must never reach the recovery function")
}

func TestCatching_DirectTypeOnly(t *testing.T) {
	inner := &notFoundError{key: "k"}
	outer := &wrappedError{cause: inner}

	in := Failed[int](outer)
	out := Catching[int](in, func(e *notFoundError) (int, error) {
		t.Error("Catching should not match a wrapped cause")
		return 0, nil
	})

	_, err := out.Sync(context.Background())
	require.Equal(t, outer, err)
}

func TestCatching_MatchesExactTopLevelType(t *testing.T) {
	cause := &notFoundError{key: "k"}
	in := Failed[int](cause)
	out := Catching(in, func(e *notFoundError) (int, error) {
		return len(e.key), nil
	})

	v, err := out.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestCatchSpecificCause_WalksChain(t *testing.T) {
	inner := &notFoundError{key: "k"}
	outer := &wrappedError{cause: inner}

	in := Failed[int](outer)
	out := CatchSpecificCause(in, func(e *notFoundError) (int, error) {
		return len(e.key), nil
	})

	v, err := out.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestCatchRootCause_OnlyMatchesInnermost(t *testing.T) {
	inner := &notFoundError{key: "k"}
	outer := &wrappedError{cause: inner}

	in := Failed[int](outer)
	out := CatchRootCause(in, func(e *notFoundError) (int, error) {
		return len(e.key), nil
	})

	v, err := out.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, v)

	in2 := Failed[int](outer)
	out2 := CatchRootCause[int](in2, func(e *wrappedError) (int, error) {
		t.Error("CatchRootCause should not match a non-root type")
		return 0, nil
	})
	_, err2 := out2.Sync(context.Background())
	require.Equal(t, outer, err2)
}

func TestOnErrorResume_ReplacesFailureWithAlternate(t *testing.T) {
	in := Failed[int](errors.New("primary failed"))
	out := OnErrorResume(in, func(cause error) *Future[int] {
		return Succeeded(99)
	})

	v, err := out.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 99, v)
}

func TestOnErrorResume_SuccessPassesThrough(t *testing.T) {
	in := Succeeded(5)
	called := false
	out := OnErrorResume(in, func(cause error) *Future[int] {
		called = true
		return Succeeded(0)
	})

	v, err := out.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, v)
	require.False(t, called)
}

func TestOnErrorResume_CancellationPassesThroughUnchanged(t *testing.T) {
	in := NewSettable[int]()
	called := false
	out := OnErrorResume(in, func(cause error) *Future[int] {
		called = true
		return Succeeded(0)
	})

	in.Cancel(false)

	_, err := out.Sync(context.Background())
	require.True(t, IsCancellation(err))
	require.False(t, called)
}
