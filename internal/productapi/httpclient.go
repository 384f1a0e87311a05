// Package productapi is the client for the remote product REST API.
package productapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the public Platzi fake store API
	DefaultBaseURL = "https://api.escuelajs.co/api/v1"

	// DefaultTimeout bounds a single request attempt
	DefaultTimeout = 30 * time.Second

	// DefaultBackoff is the initial backoff when a 429 carries no Retry-After
	DefaultBackoff = 1 * time.Second

	// CorrelationHeader carries the per-request trace id
	CorrelationHeader = "X-Correlation-ID"
)

// Observer receives one call per finished upstream operation.
type Observer interface {
	ObserveUpstream(op, outcome string, d time.Duration)
}

// HTTPClient wraps http.Client with request tracing and 429 handling.
// Every attempt carries the same X-Correlation-ID. A 429 is retried up to
// MaxRetries times, waiting for Retry-After or an exponential backoff.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

// NewHTTPClient creates a client for baseURL. A zero timeout uses
// DefaultTimeout; maxRetries of 0 makes every 429 terminal.
func NewHTTPClient(baseURL string, timeout time.Duration, maxRetries int) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: max(0, maxRetries),
		backoff:    DefaultBackoff,
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Do executes req with a correlation id and rate limit retries.
func (c *HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	correlationID := req.Header.Get(CorrelationHeader)
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	base := zerolog.Ctx(ctx)
	if base.GetLevel() == zerolog.Disabled {
		base = &log.Logger
	}
	logger := base.With().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("upstreamCorrelationId", correlationID).
		Logger()

	return c.doWithRetry(ctx, req, &logger, correlationID, 0)
}

func (c *HTTPClient) doWithRetry(ctx context.Context, req *http.Request, logger *zerolog.Logger, correlationID string, retryCount int) (*http.Response, error) {
	reqClone, err := cloneRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to clone request: %w", err)
	}
	reqClone.Header.Set(CorrelationHeader, correlationID)
	if reqClone.Header.Get("Accept") == "" {
		reqClone.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(reqClone)
	duration := time.Since(start)

	if err != nil {
		logger.Error().Err(err).Dur("duration", duration).Msg("HTTP request failed")
		return nil, err
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Int("retryCount", retryCount).
		Msg("HTTP request completed")

	if resp.StatusCode == http.StatusTooManyRequests {
		return c.handleRateLimit(ctx, req, resp, logger, correlationID, retryCount)
	}
	return resp, nil
}

func (c *HTTPClient) handleRateLimit(ctx context.Context, req *http.Request, resp *http.Response, logger *zerolog.Logger, correlationID string, retryCount int) (*http.Response, error) {
	resp.Body.Close()
	retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))

	if retryCount >= c.maxRetries {
		logger.Warn().Int("retryCount", retryCount).Msg("Rate limited - giving up")
		return nil, ErrRateLimited{RetryAfter: int(retryAfter.Seconds())}
	}

	if retryAfter == 0 {
		retryAfter = c.backoff * time.Duration(1<<retryCount)
	}

	logger.Warn().
		Dur("retryAfter", retryAfter).
		Int("retryCount", retryCount).
		Msg("Rate limited - backing off")

	timer := time.NewTimer(retryAfter)
	defer timer.Stop()
	select {
	case <-timer.C:
		return c.doWithRetry(ctx, req, logger, correlationID, retryCount+1)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// cloneRequest copies req so the body can be sent again on retry.
func cloneRequest(ctx context.Context, req *http.Request) (*http.Request, error) {
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	var body io.Reader
	if bodyBytes != nil {
		body = bytes.NewReader(bodyBytes)
	}
	reqClone, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Header {
		reqClone.Header[k] = v
	}
	return reqClone, nil
}

// parseRetryAfter accepts integer seconds or an HTTP-date.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
