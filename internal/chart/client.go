// Package chart sends day series to an external charting service and returns
// the URL of the rendered chart.
package chart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/pkordes/babystats/internal/domain"
)

// APIError is a non-2xx response from the charting service.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
	retryAfter string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Client posts {"x": [...], "y": [...]} grids to the charting endpoint using
// HTTP basic auth with the account username and API key.
type Client struct {
	endpoint   string
	username   string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetry sets the retry count after the first attempt and the first backoff
// delay, which doubles on each retry.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = max(maxRetries, 0)
		c.baseDelay = baseDelay
	}
}

// WithTransport replaces the underlying transport. Request logging still wraps it.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = rt }
}

// New returns a Client for endpoint. Requests are logged through log.
func New(endpoint, username, apiKey string, log *slog.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		username:   username,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: 3,
		baseDelay:  time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.Transport = NewLoggingTransport(c.httpClient.Transport, log)
	return c
}

type plotRequest struct {
	X []string  `json:"x"`
	Y []float64 `json:"y"`
}

type plotResponse struct {
	URL string `json:"url"`
}

// Plot uploads the series and returns the chart URL. x holds the dates as
// yyyy-mm-dd and y the values. Every failure wraps domain.ErrTransport.
func (c *Client) Plot(ctx context.Context, series domain.Series) (string, error) {
	if len(series.Points) == 0 {
		return "", fmt.Errorf("chart.Client.Plot: %w: series %q has no points", domain.ErrValidation, series.Name)
	}

	grid := plotRequest{X: make([]string, len(series.Points)), Y: make([]float64, len(series.Points))}
	for i, p := range series.Points {
		grid.X[i] = p.Date.String()
		grid.Y[i] = p.Value
	}
	payload, err := json.Marshal(grid)
	if err != nil {
		return "", fmt.Errorf("chart.Client.Plot: encode: %w", err)
	}

	body, err := c.post(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("chart.Client.Plot: %w: %w", domain.ErrTransport, err)
	}

	var out plotResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("chart.Client.Plot: %w: decode response: %w", domain.ErrTransport, err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("chart.Client.Plot: %w: response has no url", domain.ErrTransport)
	}
	return out.URL, nil
}

// post sends payload, retrying 429 and 5xx responses with exponential
// backoff. A Retry-After header on a 429 overrides the backoff.
func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	var lastErr *APIError
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(c.backoffDelay(attempt, lastErr))
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.SetBasicAuth(c.username, c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		bodyStr := string(body)
		if len(bodyStr) > 512 {
			bodyStr = bodyStr[:512]
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: bodyStr}

		if resp.StatusCode == http.StatusTooManyRequests {
			apiErr.retryAfter = resp.Header.Get("Retry-After")
			lastErr = apiErr
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = apiErr
			continue
		}
		return nil, apiErr
	}
	return nil, lastErr
}

func (c *Client) backoffDelay(attempt int, lastErr *APIError) time.Duration {
	if lastErr != nil && lastErr.retryAfter != "" {
		if secs, err := strconv.Atoi(lastErr.retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return c.baseDelay << (attempt - 1)
}
