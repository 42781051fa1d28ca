/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-crptkit/retry"
)

func makeRetryableClient(t *testing.T, opts RetryableRoundTripperOpts) *http.Client {
	t.Helper()
	rt, err := NewRetryableRoundTripperWithOpts(http.DefaultTransport, opts)
	require.NoError(t, err)
	return &http.Client{Transport: rt}
}

func TestRetryableRoundTripper(t *testing.T) {
	constantPolicy := retry.NewConstantBackoffPolicy(time.Millisecond*10, 0)

	t.Run("retries server errors until success", func(t *testing.T) {
		var serverCalls int
		var gotRetryAttempts []string
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			serverCalls++
			gotRetryAttempts = append(gotRetryAttempts, r.Header.Get(RetryAttemptNumberHeader))
			if serverCalls < 3 {
				rw.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			rw.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := makeRetryableClient(t, RetryableRoundTripperOpts{BackoffPolicy: constantPolicy})
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, []string{"", "1", "2"}, gotRetryAttempts)
	})

	t.Run("stops on max retry attempts", func(t *testing.T) {
		var serverCalls int
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			serverCalls++
			rw.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := makeRetryableClient(t, RetryableRoundTripperOpts{
			MaxRetryAttempts: 2, BackoffPolicy: constantPolicy})
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Equal(t, 3, serverCalls, "initial attempt plus 2 retries")
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var serverCalls int
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			serverCalls++
			rw.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := makeRetryableClient(t, RetryableRoundTripperOpts{BackoffPolicy: constantPolicy})
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, 1, serverCalls)
	})

	t.Run("respects Retry-After header", func(t *testing.T) {
		const allowedTimeDeviation = time.Millisecond * 150
		var serverCalls int
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			serverCalls++
			if serverCalls == 1 {
				rw.Header().Set("Retry-After", "1")
				rw.WriteHeader(http.StatusTooManyRequests)
				return
			}
			rw.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := makeRetryableClient(t, RetryableRoundTripperOpts{BackoffPolicy: constantPolicy})
		startedAt := time.Now()
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.WithinDuration(t, startedAt.Add(time.Second), time.Now(), allowedTimeDeviation)
	})

	t.Run("request body is resent on retries", func(t *testing.T) {
		var serverCalls int
		var gotBodies []string
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			serverCalls++
			body, _ := io.ReadAll(r.Body)
			gotBodies = append(gotBodies, string(body))
			if serverCalls == 1 {
				rw.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			rw.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := makeRetryableClient(t, RetryableRoundTripperOpts{BackoffPolicy: constantPolicy})
		resp, err := client.Post(server.URL, "application/json", bytes.NewReader([]byte(`{"doc_id":"doc-1"}`)))
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, []string{`{"doc_id":"doc-1"}`, `{"doc_id":"doc-1"}`}, gotBodies)
	})
}

func TestNewRetryableRoundTripperWithOptsValidation(t *testing.T) {
	_, err := NewRetryableRoundTripperWithOpts(http.DefaultTransport, RetryableRoundTripperOpts{MaxRetryAttempts: -2})
	require.EqualError(t, err, "incorrect max retry attempts")
}

func TestParseRetryAfterFromResponse(t *testing.T) {
	makeResp := func(retryAfter string) *http.Response {
		resp := &http.Response{Header: http.Header{}}
		if retryAfter != "" {
			resp.Header.Set("Retry-After", retryAfter)
		}
		return resp
	}

	retryAfter, ok := parseRetryAfterFromResponse(makeResp("5"))
	require.True(t, ok)
	require.Equal(t, time.Second*5, retryAfter)

	_, ok = parseRetryAfterFromResponse(makeResp(""))
	require.False(t, ok)

	_, ok = parseRetryAfterFromResponse(makeResp("-1"))
	require.False(t, ok)

	futureTime := time.Now().Add(time.Minute).UTC()
	retryAfter, ok = parseRetryAfterFromResponse(makeResp(futureTime.Format(http.TimeFormat)))
	require.True(t, ok)
	require.InDelta(t, time.Minute.Seconds(), retryAfter.Seconds(), 2)
}
