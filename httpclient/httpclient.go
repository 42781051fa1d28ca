/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package httpclient provides building blocks for constructing HTTP clients
// whose outgoing requests are logged, tagged with User-Agent and X-Request-ID
// headers, rate-limited with ratelimit.Gate and optionally retried.
package httpclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/acronis/go-crptkit/internal/libinfo"
	"github.com/acronis/go-crptkit/log"
	"github.com/acronis/go-crptkit/ratelimit"
)

// CloneHTTPRequest creates a shallow copy of the request along with a deep copy of the Headers.
func CloneHTTPRequest(req *http.Request) *http.Request {
	r := new(http.Request)
	*r = *req
	r.Header = CloneHTTPHeader(req.Header)
	return r
}

// CloneHTTPHeader creates a deep copy of an http.Header.
func CloneHTTPHeader(in http.Header) http.Header {
	out := make(http.Header, len(in))
	for key, values := range in {
		newValues := make([]string, len(values))
		copy(newValues, values)
		out[key] = newValues
	}
	return out
}

// New wraps delegate transports with logging, rate limiting, retries, user agent, request id
// and returns an error if any occurs.
func New(cfg *Config) (*http.Client, error) {
	return NewWithOpts(cfg, Opts{})
}

// Must wraps delegate transports with logging, rate limiting, retries, user agent, request id
// and panics if any error occurs.
func Must(cfg *Config) *http.Client {
	client, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Opts provides options for NewWithOpts and MustWithOpts functions.
type Opts struct {
	// UserAgent is a user agent string. The library name and version are used by default.
	UserAgent string

	// RequestType is a type of request, e.g. an action "submit-document" or specific information to correlate.
	RequestType string

	// Delegate is the next RoundTripper in the chain.
	Delegate http.RoundTripper

	// Logger is used for logging request details.
	Logger log.FieldLogger

	// LoggerProvider is a function that provides a context-specific logger.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// RequestIDProvider is a function that provides a request ID.
	// A new unique ID is generated for each request by default.
	RequestIDProvider func(ctx context.Context) string

	// Gate is a rate-limiting gate shared with other clients.
	// A new gate is constructed from the configuration by default.
	Gate *ratelimit.Gate
}

// NewWithOpts wraps delegate transports with options
// logging, rate limiting, retries, user agent, request id
// and returns an error if any occurs.
func NewWithOpts(cfg *Config, opts Opts) (*http.Client, error) {
	delegate := opts.Delegate
	if delegate == nil {
		delegate = http.DefaultTransport.(*http.Transport).Clone()
	}

	if cfg.Logger.Enabled {
		logOpts := cfg.Logger.TransportOpts()
		logOpts.Logger = opts.Logger
		logOpts.LoggerProvider = opts.LoggerProvider
		logOpts.RequestType = opts.RequestType
		delegate = NewLoggingRoundTripperWithOpts(delegate, logOpts)
	}

	if cfg.RateLimits.Enabled {
		gate := opts.Gate
		if gate == nil {
			var err error
			if gate, err = cfg.RateLimits.MakeGate(); err != nil {
				return nil, fmt.Errorf("create rate limiting gate: %w", err)
			}
		}
		delegate = ratelimit.NewGateRoundTripperWithOpts(delegate, gate, cfg.RateLimits.TransportOpts())
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = libinfo.UserAgent()
	}
	delegate = NewUserAgentRoundTripper(delegate, userAgent)

	delegate = NewRequestIDRoundTripperWithOpts(delegate, RequestIDRoundTripperOpts{
		RequestIDProvider: opts.RequestIDProvider,
	})

	if cfg.Retries.Enabled {
		retryOpts := cfg.Retries.TransportOpts()
		retryOpts.Logger = opts.Logger
		retryOpts.LoggerProvider = opts.LoggerProvider
		retryOpts.BackoffPolicy = cfg.Retries.GetPolicy()
		var err error
		if delegate, err = NewRetryableRoundTripperWithOpts(delegate, retryOpts); err != nil {
			return nil, fmt.Errorf("create retryable round tripper: %w", err)
		}
	}

	return &http.Client{Transport: delegate, Timeout: cfg.Timeout}, nil
}

// MustWithOpts wraps delegate transports with options
// logging, rate limiting, retries, user agent, request id
// and panics if any error occurs.
func MustWithOpts(cfg *Config, opts Opts) *http.Client {
	client, err := NewWithOpts(cfg, opts)
	if err != nil {
		panic(err)
	}
	return client
}
