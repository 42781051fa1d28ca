/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"net/http"
	"time"
)

// DefaultGateWaitTimeout is a default timeout for waiting for gate admission in GateRoundTripper.
const DefaultGateWaitTimeout = 15 * time.Second

// GateRoundTripper wraps an object implementing http.RoundTripper interface
// and gates outgoing requests through the given Gate: a request is sent only
// after it has been admitted, and its in-flight token is returned when the
// round trip finishes, regardless of the outcome.
type GateRoundTripper struct {
	Delegate http.RoundTripper

	Gate *Gate

	// WaitTimeout limits how long a request may wait for admission.
	WaitTimeout time.Duration
}

// GateRoundTripperOpts represents an options for GateRoundTripper.
type GateRoundTripperOpts struct {
	// WaitTimeout limits how long a request may wait for admission.
	// DefaultGateWaitTimeout is used if not specified.
	WaitTimeout time.Duration
}

// NewGateRoundTripper creates a new GateRoundTripper with the specified gate.
func NewGateRoundTripper(delegate http.RoundTripper, gate *Gate) *GateRoundTripper {
	return NewGateRoundTripperWithOpts(delegate, gate, GateRoundTripperOpts{})
}

// NewGateRoundTripperWithOpts creates a new GateRoundTripper with the specified gate and options.
// For options that are not presented, the default values will be used.
func NewGateRoundTripperWithOpts(
	delegate http.RoundTripper, gate *Gate, opts GateRoundTripperOpts,
) *GateRoundTripper {
	waitTimeout := opts.WaitTimeout
	if waitTimeout == 0 {
		waitTimeout = DefaultGateWaitTimeout
	}
	return &GateRoundTripper{Delegate: delegate, Gate: gate, WaitTimeout: waitTimeout}
}

// RoundTrip executes a single HTTP transaction, returning a Response for the provided Request.
func (rt *GateRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Body != nil {
		defer func() {
			_ = r.Body.Close() // Per RoundTripper contract.
		}()
	}

	ctx, cancel := context.WithTimeout(r.Context(), rt.WaitTimeout)
	defer cancel()

	if err := rt.Gate.Acquire(ctx); err != nil {
		return nil, err
	}
	defer rt.Gate.Release()

	return rt.Delegate.RoundTrip(r)
}
