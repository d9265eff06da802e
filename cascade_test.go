package gofuture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCascadeTo_SuccessMirrors(t *testing.T) {
	in := NewSettable[int]()
	target := NewSettable[int]()
	CascadeTo(in, target)

	in.TrySucceed(7)

	v, err := target.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestCascadeTo_FailureMirrors(t *testing.T) {
	boom := errors.New("boom")
	in := NewSettable[int]()
	target := NewSettable[int]()
	CascadeTo(in, target)

	in.TryFail(boom)

	_, err := target.Sync(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestCascadeTo_TargetCancelCancelsSource(t *testing.T) {
	in := NewSettable[int]()
	target := NewSettable[int]()
	CascadeTo(in, target)

	target.Cancel(true)

	waitUntil(t, time.Second, in.IsCancelled)
}
