/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoWithRetry(t *testing.T) {
	t.Run("succeeds after retries", func(t *testing.T) {
		var attempts int
		err := DoWithRetry(context.Background(), NewConstantBackoffPolicy(time.Millisecond, 5), nil, nil,
			func(ctx context.Context) error {
				attempts++
				if attempts < 3 {
					return errors.New("temporary failure")
				}
				return nil
			})
		require.NoError(t, err)
		require.Equal(t, 3, attempts)
	})

	t.Run("stops on non-retryable error", func(t *testing.T) {
		permanentErr := errors.New("permanent failure")
		var attempts int
		err := DoWithRetry(context.Background(), NewConstantBackoffPolicy(time.Millisecond, 5),
			func(err error) bool { return !errors.Is(err, permanentErr) }, nil,
			func(ctx context.Context) error {
				attempts++
				return permanentErr
			})
		require.ErrorIs(t, err, permanentErr)
		require.Equal(t, 1, attempts)
	})

	t.Run("stops when max attempts exceeded", func(t *testing.T) {
		retryableErr := errors.New("temporary failure")
		var attempts int
		err := DoWithRetry(context.Background(), NewConstantBackoffPolicy(time.Millisecond, 2), nil, nil,
			func(ctx context.Context) error {
				attempts++
				return retryableErr
			})
		require.ErrorIs(t, err, retryableErr)
		require.Equal(t, 3, attempts, "initial attempt plus 2 retries")
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var attempts int
		err := DoWithRetry(ctx, NewConstantBackoffPolicy(time.Second, 10), nil, nil,
			func(ctx context.Context) error {
				attempts++
				cancel()
				return errors.New("temporary failure")
			})
		require.Error(t, err)
		require.Equal(t, 1, attempts)
	})
}

func TestExponentialBackoffPolicy(t *testing.T) {
	bf := NewExponentialBackoffPolicy(time.Millisecond*100, 3).NewBackOff()
	first := bf.NextBackOff()
	require.Greater(t, first, time.Duration(0))
	require.Less(t, first, time.Millisecond*200)
}
