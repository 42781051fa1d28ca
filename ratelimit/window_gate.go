/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// FixedWindowGate is a WindowGate implementation that counts admissions
// within a fixed rolling window and resets the count when the window elapses.
// All state transitions happen under one exclusive lock, so admissions are linearizable.
// No FIFO ordering is guaranteed for the callers waiting out an exhausted window.
type FixedWindowGate struct {
	window time.Duration
	limit  int
	nowFn  func() time.Time

	mu    sync.Mutex
	start time.Time
	count int
	gen   uint64
}

var _ WindowGate = (*FixedWindowGate)(nil)

// NewFixedWindowGate creates a new FixedWindowGate with the given window duration and admission limit.
func NewFixedWindowGate(window time.Duration, limit int) (*FixedWindowGate, error) {
	if limit <= 0 {
		return nil, &InvalidConfigurationError{Message: "request limit must be positive"}
	}
	if window <= 0 {
		return nil, &InvalidConfigurationError{Message: "window duration must be positive"}
	}
	g := &FixedWindowGate{window: window, limit: limit, nowFn: time.Now}
	g.start = g.nowFn()
	return g, nil
}

// Acquire blocks until one admission is granted in the current window or ctx is done.
// When the current window is exhausted, the caller sleeps out the window remainder
// with the lock released and then re-checks the state with a fresh timestamp,
// since other callers may have reset and refilled the window in the meantime.
func (g *FixedWindowGate) Acquire(ctx context.Context) (uint64, error) {
	g.mu.Lock()
	for {
		now := g.nowFn()
		elapsed := now.Sub(g.start)
		if elapsed >= g.window {
			g.reset(now)
			elapsed = 0
		}

		if g.count < g.limit {
			g.count++
			gen := g.gen
			g.mu.Unlock()
			return gen, nil
		}

		remaining := g.window - elapsed
		if remaining <= 0 {
			// Scheduling delay or clock skew, the elapsed check above will reset on the next pass.
			continue
		}
		g.mu.Unlock()

		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, &AcquireWaitError{Inner: ctx.Err()}
		case <-timer.C:
		}
		g.mu.Lock()
	}
}

// Refund rolls back an admission granted by Acquire.
// A refund is applied only if the window the admission was granted in is still current,
// refunding into a newer window would over-admit it.
func (g *FixedWindowGate) Refund(gen uint64) {
	g.mu.Lock()
	if g.gen == gen && g.count > 0 {
		g.count--
	}
	g.mu.Unlock()
}

// reset must be called with the lock held.
func (g *FixedWindowGate) reset(now time.Time) {
	g.start = now
	g.count = 0
	g.gen++
}
