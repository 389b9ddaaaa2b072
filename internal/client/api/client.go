// Package api is a typed HTTP client for the public blog REST API.
//
// Every endpoint answers with the envelope {success, data} or, on failure,
// {success:false, error:true, message}. Failures are returned as *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"inkwell/internal/handler/http/requestid"
	"inkwell/internal/resilience/circuitbreaker"
	"inkwell/internal/resilience/retry"
)

// DefaultTimeout bounds every request when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps the response body read from the API.
const maxBodyBytes = 4 << 20

// Config contains the client configuration.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8080/api
	BaseURL string

	// Timeout is the per-request timeout
	Timeout time.Duration

	// HTTPClient overrides the default client (tests)
	HTTPClient *http.Client

	// Retry applies to GET requests; nil uses retry.APIConfig
	Retry *retry.Config

	// Breaker guards every request; nil builds one from circuitbreaker.APIConfig
	Breaker *circuitbreaker.CircuitBreaker
}

// Client calls the public endpoints.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	retry      retry.Config
	breaker    *circuitbreaker.CircuitBreaker
}

// Error is a non-2xx answer of the API, or an envelope with success=false.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// HTTPStatus lets retry treat 5xx and 429 answers as transient.
func (e *Error) HTTPStatus() int { return e.Status }

// IsValidation reports whether err is a 400 answer, i.e. input the user can fix.
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Error   bool            `json:"error"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// NewClient validates cfg.BaseURL and returns a client.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must use http or https: %q", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base url must have a host: %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	rc := retry.APIConfig()
	if cfg.Retry != nil {
		rc = *cfg.Retry
	}
	cb := cfg.Breaker
	if cb == nil {
		cb = circuitbreaker.New(circuitbreaker.APIConfig())
	}
	return &Client{base: base, httpClient: hc, retry: rc, breaker: cb}, nil
}

// endpoint joins path to the base URL and encodes params by their url tags.
func (c *Client) endpoint(path string, params any) (string, error) {
	q, err := query.Values(params)
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// get retries transient failures; reads are idempotent. Each attempt passes
// the breaker, and an open breaker ends the retries.
func (c *Client) get(ctx context.Context, path string, params, out any) error {
	return retry.WithBackoff(ctx, c.retry, func() error {
		return c.breaker.Do(func() error {
			return c.do(ctx, http.MethodGet, path, params, nil, out)
		})
	})
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.breaker.Do(func() error {
		return c.do(ctx, http.MethodPost, path, nil, body, out)
	})
}

// do sends one request and decodes envelope.data into out (nil discards it).
func (c *Client) do(ctx context.Context, method, path string, params, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target, err := c.endpoint(path, params)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.RequestIDHeader, id)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
