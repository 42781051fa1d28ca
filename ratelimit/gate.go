/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package ratelimit provides client-side admission control for outgoing requests.
// A Gate bounds both the admission rate (at most limit admissions per rolling window)
// and the number of concurrently outstanding requests (at most limit in-flight tokens).
// The two constraints are enforced by independent primitives, WindowGate and TokenPool,
// so a stalled token wait never blocks window checks of other callers.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/atomic"
)

// WindowGate admits callers under a rolling-window rate limit.
type WindowGate interface {
	// Acquire blocks until one admission is granted in the current window or ctx is done.
	// On success it returns a window generation that can be passed to Refund
	// to roll the admission back.
	Acquire(ctx context.Context) (gen uint64, err error)

	// Refund rolls back an admission granted by Acquire.
	// It has no effect if the window the admission was granted in is no longer current.
	Refund(gen uint64)
}

// TokenPool is a bounded pool of in-flight tokens.
type TokenPool interface {
	// Acquire blocks until a token is checked out or ctx is done.
	Acquire(ctx context.Context) error

	// TryAcquire checks out a token without blocking and reports whether it succeeded.
	TryAcquire() bool

	// Release returns a previously checked out token, unblocking one waiter if any.
	Release()
}

// GateOpts represents an options for Gate.
type GateOpts struct {
	// Collector is a metrics collector. NullMetricsCollector is used by default.
	Collector MetricsCollector
}

// Gate combines a WindowGate and a TokenPool of the same size:
// every admitted caller both counts against the current window
// and occupies one in-flight token until Release is called.
type Gate struct {
	windowGate WindowGate
	tokens     TokenPool
	collector  MetricsCollector

	inFlight atomic.Int64
	admitted atomic.Uint64
}

// NewGate creates a new Gate that admits at most limit callers per window
// and keeps at most limit requests in flight.
func NewGate(window time.Duration, limit int) (*Gate, error) {
	return NewGateWithOpts(window, limit, GateOpts{})
}

// NewGateWithOpts creates a new Gate with specified options.
// For options that are not presented, the default values will be used.
func NewGateWithOpts(window time.Duration, limit int, opts GateOpts) (*Gate, error) {
	windowGate, err := NewFixedWindowGate(window, limit)
	if err != nil {
		return nil, err
	}
	tokens, err := NewTokenPool(limit)
	if err != nil {
		return nil, err
	}

	collector := opts.Collector
	if collector == nil {
		collector = NullMetricsCollector{}
	}

	return &Gate{windowGate: windowGate, tokens: tokens, collector: collector}, nil
}

// Acquire blocks the caller until it is safe to proceed with one more request.
// On success, exactly one matching Release call must follow once the request completes.
// If ctx is done while waiting, an AcquireWaitError is returned and neither
// the window count nor the token occupancy is changed.
func (g *Gate) Acquire(ctx context.Context) error {
	start := time.Now()

	gen, err := g.windowGate.Acquire(ctx)
	if err != nil {
		g.collector.IncInterrupted()
		return err
	}

	// The window lock is already released here, a stalled token wait
	// cannot block window checks of the other callers.
	if err := g.tokens.Acquire(ctx); err != nil {
		g.windowGate.Refund(gen)
		g.collector.IncInterrupted()
		return err
	}

	g.inFlight.Inc()
	g.admitted.Inc()
	g.collector.IncAdmitted()
	g.collector.ObserveAcquireWait(time.Since(start))
	return nil
}

// Release returns the in-flight token checked out by a successful Acquire call.
// It must be called exactly once per successful Acquire, regardless of the request outcome.
func (g *Gate) Release() {
	g.inFlight.Dec()
	g.tokens.Release()
}

// GateStats is a snapshot of gate counters.
type GateStats struct {
	// InFlight is the number of tokens currently checked out.
	InFlight int64

	// Admitted is the total number of successful Acquire calls.
	Admitted uint64
}

// Stats returns a snapshot of gate counters.
func (g *Gate) Stats() GateStats {
	return GateStats{InFlight: g.inFlight.Load(), Admitted: g.admitted.Load()}
}

// InvalidConfigurationError is returned by constructors
// when the passed rate-limiting parameters cannot produce a usable gate.
type InvalidConfigurationError struct {
	Message string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid rate limit configuration: %s", e.Message)
}

// AcquireWaitError is returned when a caller is cancelled while blocked in Acquire.
type AcquireWaitError struct {
	Inner error
}

func (e *AcquireWaitError) Error() string {
	return fmt.Sprintf("wait due to client side rate limiting: %s", e.Inner.Error())
}

// Unwrap returns the next error in the error chain.
func (e *AcquireWaitError) Unwrap() error {
	return e.Inner
}
