// Package backend implements the HTTP gateway to the remote finance API. It is
// a thin request executor: retries and offline fallbacks are the sync
// coordinators' concern, never this package's.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/fincalc/finsync/internal/infrastructure/metrics"
)

// Config holds gateway client configuration.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client executes JSON requests against the remote backend with a static
// bearer token. Mutating requests carry the caller's Idempotency-Key so every
// retry of the same logical mutation sends the same key and a mutation that
// already reached the backend is not applied twice.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a gateway client for the given base URL and token.
func NewClient(cfg Config, logger zerolog.Logger, m *metrics.Metrics) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, cfg.BaseURL, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    base,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "backend").Logger(),
		metrics:    m,
	}, nil
}

// do executes a single request. key is the Idempotency-Key for mutations and
// must be stable across retries of the same logical mutation; reads pass "".
// body may be nil for bodyless requests; out may be nil for endpoints that
// return no content (e.g. delete).
func (c *Client) do(ctx context.Context, method, endpoint, key string, body, out any) error {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, endpoint, err)
	}
	u := c.baseURL.ResolveReference(ref)

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncodingFailed, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet {
		if key == "" {
			// One-shot mutation with no ledger record behind it.
			key = ulid.Make().String()
		}
		req.Header.Set("Idempotency-Key", key)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, "transport_error", start)
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	defer resp.Body.Close()

	c.observe(method, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		c.logger.Debug().
			Str("method", method).
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("backend returned error status")
		return &HTTPError{Status: resp.StatusCode}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodingFailed, err)
	}

	return nil
}

func (c *Client) observe(method, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.GatewayRequests.WithLabelValues(method, status).Inc()
	c.metrics.GatewayDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
