/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/acronis/go-crptkit/log"
	"github.com/acronis/go-crptkit/ratelimit"
)

const (
	logKeyMethod = "method"
	logKeyURI    = "uri"
	logKeyStatus = "status"
)

// Client submits documents to the CRPT API. All submissions pass through
// a rate-limiting gate: no more than the configured number of requests is
// started per window, and no more than that number is in flight at once.
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	address     string
	waitTimeout time.Duration
	httpClient  *http.Client
	gate        *ratelimit.Gate
	serializer  Serializer
	logger      log.FieldLogger
}

// Opts represents options for the Client.
type Opts struct {
	// HTTPClient is an HTTP client to use for sending requests.
	// If not set, a new client with the configured request timeout is used.
	HTTPClient *http.Client

	// Serializer converts documents into request bodies. JSONSerializer is used by default.
	Serializer Serializer

	// Logger is used for logging request details. Disabled by default.
	Logger log.FieldLogger

	// MetricsCollector collects rate-limiting metrics. Metrics are not collected by default.
	MetricsCollector ratelimit.MetricsCollector
}

// NewClient creates a new Client with the default options.
func NewClient(cfg *Config) (*Client, error) {
	return NewClientWithOpts(cfg, Opts{})
}

// NewClientWithOpts creates a new Client with the passed options.
func NewClientWithOpts(cfg *Config, opts Opts) (*Client, error) {
	address := cfg.Address
	if address == "" {
		address = DefaultAddress
	}
	if cfg.RequestTimeout < 0 {
		return nil, &InvalidConfigurationError{Message: "request timeout cannot be negative"}
	}

	gate, err := ratelimit.NewGateWithOpts(cfg.RateLimit.Window, cfg.RateLimit.Limit,
		ratelimit.GateOpts{Collector: opts.MetricsCollector})
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	serializer := opts.Serializer
	if serializer == nil {
		serializer = JSONSerializer{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewDisabledLogger()
	}

	return &Client{
		address:     address,
		waitTimeout: cfg.RateLimit.WaitTimeout,
		httpClient:  httpClient,
		gate:        gate,
		serializer:  serializer,
		logger:      logger,
	}, nil
}

// CreateDocument submits a document for introducing a product into circulation
// along with its detached signature.
//
// The call may block until the rate-limiting gate admits it, but no longer than
// the configured wait timeout. If the wait is interrupted by the context or the
// timeout, ratelimit.AcquireWaitError is returned and no rate-limiting state is
// consumed. A serialization failure is reported as SerializationError before
// any waiting happens. Transport failures are reported as RequestError, and
// 4xx/5xx responses as APIRequestError.
func (c *Client) CreateDocument(ctx context.Context, doc *Document, signature string) error {
	body, err := c.serializer.Serialize(doc)
	if err != nil {
		return err
	}

	acquireCtx := ctx
	if c.waitTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, c.waitTimeout)
		defer cancel()
	}
	if err = c.gate.Acquire(acquireCtx); err != nil {
		return err
	}
	defer c.gate.Release()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.address, bytes.NewReader(body))
	if err != nil {
		return &RequestError{Inner: err}
	}
	req.Header.Set("Content-Type", c.serializer.ContentType())
	req.Header.Set("Signature", signature)

	c.logger.AtLevel(log.LevelDebug, func(logFn log.LogFunc) {
		logFn("sending document creation request",
			log.String(logKeyMethod, req.Method),
			log.String(logKeyURI, req.URL.String()),
		)
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(fmt.Sprintf("failed to do http request %s %s", req.Method, req.URL.String()),
			log.String(logKeyMethod, req.Method),
			log.String(logKeyURI, req.URL.String()),
			log.Error(err),
		)
		return &RequestError{Inner: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Error("failed to close response body",
				log.String(logKeyURI, req.URL.String()), log.Error(closeErr))
		}
	}()

	c.logger.AtLevel(log.LevelDebug, func(logFn log.LogFunc) {
		logFn("got document creation response",
			log.String(logKeyMethod, req.Method),
			log.String(logKeyURI, req.URL.String()),
			log.Int(logKeyStatus, resp.StatusCode),
		)
	})

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIRequestError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Stats returns the current observable state of the client's rate-limiting gate.
func (c *Client) Stats() ratelimit.GateStats {
	return c.gate.Stats()
}
