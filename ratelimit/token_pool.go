/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
)

// chanTokenPool is a TokenPool implementation backed by a buffered channel.
// A token is checked out by sending into the channel and returned by receiving from it,
// waiters are unblocked in an order chosen by the runtime, not FIFO.
type chanTokenPool struct {
	slots chan struct{}
}

// NewTokenPool creates a new TokenPool with the given number of tokens.
func NewTokenPool(size int) (TokenPool, error) {
	if size <= 0 {
		return nil, &InvalidConfigurationError{Message: "token pool size must be positive"}
	}
	return &chanTokenPool{slots: make(chan struct{}, size)}, nil
}

// Acquire blocks until a token is checked out or ctx is done.
func (p *chanTokenPool) Acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		return nil
	default:
	}
	select {
	case p.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return &AcquireWaitError{Inner: ctx.Err()}
	}
}

// TryAcquire checks out a token without blocking and reports whether it succeeded.
func (p *chanTokenPool) TryAcquire() bool {
	select {
	case p.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release returns a previously checked out token.
// Releasing into an empty pool is a no-op rather than a panic.
func (p *chanTokenPool) Release() {
	select {
	case <-p.slots:
	default:
	}
}
