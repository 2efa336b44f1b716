package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/elderflowhq/console/internal/auth"
)

// Client talks to the ElderFlow REST backend. All calls require credentials
// except Login; the missing-credentials check happens before any network I/O.
type Client struct {
	base   *url.URL
	http   *http.Client
	creds  auth.Source
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger attaches a logger for request-level debug logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the given base URL and credential source.
func New(baseURL string, creds auth.Source, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	c := &Client{
		base:  base,
		http:  &http.Client{Timeout: 10 * time.Second},
		creds: creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do issues an authenticated JSON request. A nil out skips response decoding.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	creds := c.creds.Credentials()
	if creds == nil {
		return auth.ErrNotLoggedIn
	}
	return c.doWithToken(ctx, method, path, query, creds.Token, body, out)
}

func (c *Client) doWithToken(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Debug("api request", "method", method, "path", path, "status", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// download issues an authenticated GET for a binary payload.
func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	creds := c.creds.Credentials()
	if creds == nil {
		return nil, auth.ErrNotLoggedIn
	}

	u := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: read response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp.StatusCode, data)
	}
	return data, nil
}

func apiError(status int, body []byte) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.text() != "" {
		return &APIError{Status: status, Message: eb.text()}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("request failed with status %d", status)}
}
