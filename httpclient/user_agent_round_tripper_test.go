/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserAgentRoundTripper(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		rw.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	doRequest := func(t *testing.T, client *http.Client, userAgent string) {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		if userAgent != "" {
			req.Header.Set("User-Agent", userAgent)
		}
		resp, err := client.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	t.Run("set if empty", func(t *testing.T) {
		client := &http.Client{Transport: NewUserAgentRoundTripper(http.DefaultTransport, "lib/1.0")}
		doRequest(t, client, "")
		require.Equal(t, "lib/1.0", gotUserAgent)
		doRequest(t, client, "app/2.0")
		require.Equal(t, "app/2.0", gotUserAgent)
	})

	t.Run("append", func(t *testing.T) {
		client := &http.Client{Transport: NewUserAgentRoundTripperWithOpts(http.DefaultTransport, "lib/1.0",
			UserAgentRoundTripperOpts{UpdateStrategy: UserAgentUpdateStrategyAppend})}
		doRequest(t, client, "app/2.0")
		require.Equal(t, "app/2.0 lib/1.0", gotUserAgent)
	})

	t.Run("prepend", func(t *testing.T) {
		client := &http.Client{Transport: NewUserAgentRoundTripperWithOpts(http.DefaultTransport, "lib/1.0",
			UserAgentRoundTripperOpts{UpdateStrategy: UserAgentUpdateStrategyPrepend})}
		doRequest(t, client, "app/2.0")
		require.Equal(t, "lib/1.0 app/2.0", gotUserAgent)
	})
}
