package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/SugaryLLC/sugary-web/internal/logger"
)

// ErrNotConfigured is returned when no backend base URL was supplied.
// Callers must surface it as a failure value, not attempt the network.
var ErrNotConfigured = errors.New("backend: base URL is not configured")

// Client issues requests against the external identity/account
// backend. It joins relative paths onto the configured base URL,
// applies default JSON headers, and enforces a fixed client timeout.
// It never parses or retries; callers inspect the raw response.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
}

// New builds a Client. An empty rawBaseURL yields a client whose every
// call fails with ErrNotConfigured.
func New(rawBaseURL string, timeout time.Duration) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
	if rawBaseURL == "" {
		return c, nil
	}

	u, err := url.Parse(rawBaseURL)
	if err != nil {
		return nil, fmt.Errorf("backend: parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: base URL %q must be absolute", rawBaseURL)
	}
	c.baseURL = u
	return c, nil
}

// Configured reports whether a base URL was supplied.
func (c *Client) Configured() bool {
	return c.baseURL != nil
}

// RequestOption mutates the outbound request before it is sent.
type RequestOption func(*http.Request)

// WithBearer attaches the access token as an Authorization header.
func WithBearer(token string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// WithQuery sets the request query string.
func WithQuery(values url.Values) RequestOption {
	return func(req *http.Request) {
		req.URL.RawQuery = values.Encode()
	}
}

// WithHeader overrides one of the default headers.
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

// Do sends one request. A non-nil body is JSON-encoded. The response
// is returned unread; status and body inspection belong to the caller.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*http.Response, error) {
	if c.baseURL == nil {
		return nil, ErrNotConfigured
	}

	u := c.baseURL.JoinPath(path)

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("backend: encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	logger.FromContext(ctx).Debugw("backend request",
		"method", method,
		"url", req.URL.String(),
	)

	return c.httpClient.Do(req)
}
