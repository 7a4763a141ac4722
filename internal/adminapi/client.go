package adminapi

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

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/pkg/circuitbreaker"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

// Client talks to the remote admin API that owns appointments, services and
// doctors. Every call is a fresh network read; the booking-critical
// appointment path must never be served from a cache.
type Client struct {
	cfg     config.AdminAPIConfig
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
}

// StatusError carries a non-2xx provider response. The raw body is logged at
// the boundary and never surfaced to callers of the public API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("admin api responded %d: %s", e.StatusCode, e.Message)
}

func NewClient(cfg config.AdminAPIConfig, m *metrics.Metrics) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "admin-api",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		metrics: m,
	}
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid admin api base url: %w", err)
	}
	u = u.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// do executes one request through the circuit breaker and decodes a 2xx JSON
// body into out. Non-2xx responses come back as *StatusError.
func (c *Client) do(ctx context.Context, operation, method, rawURL string, body interface{}, out interface{}) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	var resp *http.Response
	err = c.breaker.Execute(func() error {
		var execErr error
		resp, execErr = c.http.Do(req)
		if execErr != nil {
			return execErr
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("admin api returned %d", resp.StatusCode)
		}
		return nil
	})

	if c.metrics != nil {
		c.metrics.ProviderLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		status := "error"
		if resp != nil {
			status = strconv.Itoa(resp.StatusCode)
		}
		c.metrics.ProviderRequests.WithLabelValues(operation, status).Inc()
	}

	if resp == nil {
		return fmt.Errorf("admin api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Bytes("body", raw).
			Msg("admin api error response")
		return &StatusError{
			StatusCode: resp.StatusCode,
			Message:    decodeErrorMessage(raw),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode admin api response: %w", err)
	}
	return nil
}

func decodeErrorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		return "request rejected"
	}
	return body.Error
}
