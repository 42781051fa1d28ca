/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewTokenPool(t *testing.T) {
	for _, size := range []int{0, -1} {
		p, err := NewTokenPool(size)
		require.Nil(t, p)
		require.EqualError(t, err, "invalid rate limit configuration: token pool size must be positive")
	}
}

func TestTokenPoolTryAcquire(t *testing.T) {
	p, err := NewTokenPool(2)
	require.NoError(t, err)

	require.True(t, p.TryAcquire())
	require.True(t, p.TryAcquire())
	require.False(t, p.TryAcquire(), "exhausted pool should not give out more tokens")

	p.Release()
	require.True(t, p.TryAcquire())
}

func TestTokenPoolAcquireBlocksUntilRelease(t *testing.T) {
	const allowedTimeDeviation = time.Millisecond * 100

	p, err := NewTokenPool(1)
	require.NoError(t, err)
	require.NoError(t, p.Acquire(context.Background()))

	releaseAfter := time.Millisecond * 200
	go func() {
		time.Sleep(releaseAfter)
		p.Release()
	}()

	startedAt := time.Now()
	require.NoError(t, p.Acquire(context.Background()))
	require.WithinDuration(t, startedAt.Add(releaseAfter), time.Now(), allowedTimeDeviation,
		"acquire should be unblocked by the release")
}

func TestTokenPoolAcquireCancellation(t *testing.T) {
	p, err := NewTokenPool(1)
	require.NoError(t, err)
	require.NoError(t, p.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*50)
	defer cancel()
	err = p.Acquire(ctx)
	var waitErr *AcquireWaitError
	require.ErrorAs(t, err, &waitErr)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The pool must stay usable after the cancelled wait.
	p.Release()
	require.True(t, p.TryAcquire())
}
