/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewGate(t *testing.T) {
	tests := []struct {
		Name       string
		Window     time.Duration
		Limit      int
		WantErrMsg string
	}{
		{
			Name:       "limit is zero",
			Window:     time.Second,
			Limit:      0,
			WantErrMsg: "invalid rate limit configuration: request limit must be positive",
		},
		{
			Name:       "limit is negative",
			Window:     time.Second,
			Limit:      -5,
			WantErrMsg: "invalid rate limit configuration: request limit must be positive",
		},
		{
			Name:       "window is zero",
			Window:     0,
			Limit:      3,
			WantErrMsg: "invalid rate limit configuration: window duration must be positive",
		},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.Name, func(t *testing.T) {
			g, err := NewGate(tt.Window, tt.Limit)
			require.Nil(t, g, "no partially constructed gate should be returned")
			require.EqualError(t, err, tt.WantErrMsg)
			var cfgErr *InvalidConfigurationError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestGateAcquireRelease(t *testing.T) {
	g, err := NewGate(time.Second*10, 2)
	require.NoError(t, err)

	require.NoError(t, g.Acquire(context.Background()))
	require.NoError(t, g.Acquire(context.Background()))
	require.Equal(t, GateStats{InFlight: 2, Admitted: 2}, g.Stats())

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*50)
	defer cancel()
	err = g.Acquire(ctx)
	var waitErr *AcquireWaitError
	require.ErrorAs(t, err, &waitErr)
	require.Equal(t, GateStats{InFlight: 2, Admitted: 2}, g.Stats(),
		"cancelled acquire should not change the gate state")

	g.Release()
	g.Release()
	require.Equal(t, GateStats{InFlight: 0, Admitted: 2}, g.Stats())
}

func TestGateRefundsWindowAdmissionOnTokenWaitCancellation(t *testing.T) {
	const window = time.Millisecond * 200

	g, err := NewGate(window, 1)
	require.NoError(t, err)

	// Hold the only token past the end of the first window.
	require.NoError(t, g.Acquire(context.Background()))
	time.Sleep(window + time.Millisecond*50)

	// The window admits into a fresh window, but the token wait is cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*50)
	defer cancel()
	err = g.Acquire(ctx)
	var waitErr *AcquireWaitError
	require.ErrorAs(t, err, &waitErr)
	require.Equal(t, uint64(1), g.Stats().Admitted)

	// After the refund and the release, the gate must admit again without a rate wait.
	g.Release()
	startedAt := time.Now()
	require.NoError(t, g.Acquire(context.Background()))
	require.WithinDuration(t, startedAt, time.Now(), time.Millisecond*100,
		"refunded admission should leave room in the current window")
	g.Release()
}

func TestGateConcurrentCallsAreWindowed(t *testing.T) {
	const window = time.Millisecond * 500
	const limit = 5
	const callsCount = limit + 3

	g, err := NewGate(window, limit)
	require.NoError(t, err)

	admittedAt := make(chan time.Time, callsCount)
	startedAt := time.Now()

	var wg sync.WaitGroup
	wg.Add(callsCount)
	for i := 0; i < callsCount; i++ {
		go func() {
			defer wg.Done()
			require.NoError(t, g.Acquire(context.Background()))
			admittedAt <- time.Now()
			g.Release()
		}()
	}
	wg.Wait()
	close(admittedAt)

	firstWindowEnd := startedAt.Add(window)
	inFirstWindow := 0
	for ts := range admittedAt {
		if ts.Before(firstWindowEnd) {
			inFirstWindow++
		}
	}
	require.LessOrEqual(t, inFirstWindow, limit)
	require.Equal(t, GateStats{InFlight: 0, Admitted: callsCount}, g.Stats())
}

func TestGateSequentialCallsExample(t *testing.T) {
	// Window of 1 second, limit of 3, 5 back-to-back calls:
	// the first three proceed at once, the fourth waits out the window remainder,
	// the fifth is gated against the window established by the fourth.
	const window = time.Second
	const allowedTimeDeviation = time.Millisecond * 100

	g, err := NewGate(window, 3)
	require.NoError(t, err)

	startedAt := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, g.Acquire(context.Background()))
		g.Release()
	}
	require.WithinDuration(t, startedAt, time.Now(), allowedTimeDeviation)

	require.NoError(t, g.Acquire(context.Background()))
	g.Release()
	require.WithinDuration(t, startedAt.Add(window), time.Now(), allowedTimeDeviation,
		"the 4th call should wait out the first window")

	require.NoError(t, g.Acquire(context.Background()))
	g.Release()
	require.WithinDuration(t, startedAt.Add(window), time.Now(), allowedTimeDeviation,
		"the 5th call fits into the window opened by the 4th one")
}

func TestGateCollectsMetrics(t *testing.T) {
	collector := &testMetricsCollector{}
	g, err := NewGateWithOpts(time.Second*10, 1, GateOpts{Collector: collector})
	require.NoError(t, err)

	require.NoError(t, g.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*50)
	defer cancel()
	require.Error(t, g.Acquire(ctx))

	require.Equal(t, 1, collector.admitted)
	require.Equal(t, 1, collector.interrupted)
	require.Equal(t, 1, collector.waitsObserved)
}

type testMetricsCollector struct {
	mu            sync.Mutex
	admitted      int
	interrupted   int
	waitsObserved int
}

func (c *testMetricsCollector) ObserveAcquireWait(waitTime time.Duration) {
	c.mu.Lock()
	c.waitsObserved++
	c.mu.Unlock()
}

func (c *testMetricsCollector) IncAdmitted() {
	c.mu.Lock()
	c.admitted++
	c.mu.Unlock()
}

func (c *testMetricsCollector) IncInterrupted() {
	c.mu.Lock()
	c.interrupted++
	c.mu.Unlock()
}
