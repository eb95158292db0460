// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/logging"
)

// Backend locations used when nothing is configured.
const (
	DefaultProductionURL  = "https://propmatch-backend-1077352833070.us-central1.run.app"
	DefaultDevelopmentURL = "http://localhost:8000"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the number of extra attempts for idempotent
	// requests that fail with a network error or 5xx.
	DefaultMaxRetries = 2

	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 10 * time.Second

	// MaxResponseSize caps how much of a body is read.
	MaxResponseSize = 10 * 1024 * 1024
)

// Options configure a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
	Burst             int
	// Debug logs each request line and response status at info level.
	Debug     bool
	Logger    *logging.Logger
	UserAgent string
	// Transport is the innermost round tripper. Default is a pooled
	// http.Transport requiring TLS 1.2.
	Transport http.RoundTripper
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	http       *http.Client
	auth       *BearerAuth
	maxRetries int
	debug      bool
	log        *logging.Logger
	userAgent  string
	backoff    func(attempt int) time.Duration
}

// NewClient builds the client and its transport chain.
func NewClient(opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultProductionURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "propmatch-cli"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	auth := NewBearerAuth(base)
	return &Client{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		http: &http.Client{
			Transport: newRateLimitedTransport(opts.RequestsPerSecond, opts.Burst, auth),
			Timeout:   opts.Timeout,
		},
		auth:       auth,
		maxRetries: opts.MaxRetries,
		debug:      opts.Debug,
		log:        opts.Logger.Named("api"),
		userAgent:  opts.UserAgent,
		backoff:    calculateBackoff,
	}
}

// Auth returns the bearer interceptor installed on this client's transport.
func (c *Client) Auth() *BearerAuth { return c.auth }

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// HTTPClient returns the shared http.Client.
func (c *Client) HTTPClient() *http.Client { return c.http }

// request describes one call.
type request struct {
	method string
	path   string
	body   any
	// token, when set, is sent explicitly instead of the attached one.
	token string
}

// do sends req and decodes a 2xx JSON body into out (if non-nil). GETs are
// retried on network errors and 5xx.
func (c *Client) do(ctx context.Context, req request, out any) error {
	var payload []byte
	if req.body != nil {
		var err error
		if payload, err = json.Marshal(req.body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	attempts := 1
	if req.method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}

		body, err := c.once(ctx, req, payload)
		if err == nil {
			if out == nil || len(body) == 0 {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
			return nil
		}
		if attempts == 1 || !isRetryable(ctx, err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) once(ctx context.Context, req request, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	c.logRequest(httpReq)
	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()
	c.logResponse(httpReq, resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(resp.StatusCode, body)
	}
	return body, nil
}

// readResponse reads at most MaxResponseSize bytes.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrResponseTooLarge, MaxResponseSize)
	}
	return body, nil
}

// isRetryable accepts 5xx responses and transport failures, never 4xx and
// never the caller's own cancellation.
func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	if errors.Is(err, ErrResponseTooLarge) {
		return false
	}
	return !errors.Is(err, context.Canceled)
}

func calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// Headers and bodies are never logged.
func (c *Client) logRequest(req *http.Request) {
	if !c.debug {
		return
	}
	c.log.Info("api request", zap.String("method", req.Method), zap.String("path", req.URL.Path))
}

func (c *Client) logResponse(req *http.Request, resp *http.Response, d time.Duration) {
	if !c.debug {
		return
	}
	c.log.Info("api response",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", d))
}
