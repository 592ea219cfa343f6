// Package api implements the client for the POS backend's versioned REST
// API. Responses arrive in a {success, data, message, pagination?} envelope;
// requests carry the session bearer token and, for mutations, an
// Idempotency-Key so a retried submission cannot apply twice.
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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/posclub/cashier/internal/models"
)

const requestTimeout = 15 * time.Second

// TokenSource supplies the current bearer token, empty when logged out.
type TokenSource interface {
	Token() string
}

// Client talks to the POS backend.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithOnUnauthorized installs the hook fired when any request outside the
// login and handover flows is rejected with 401. The hook is expected to
// tear the session down.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.logger = log }
}

// NewClient creates a client rooted at baseURL (including the versioned
// prefix, e.g. "http://localhost:8080/api/v1").
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Message    string             `json:"message"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// Paths exempt from the global 401 teardown: failing credentials there are
// recoverable in place, not a session expiry.
func exemptFromTeardown(path string) bool {
	return strings.Contains(path, "/auth/login") || strings.Contains(path, "/cashier/shifts/handover")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (*models.Pagination, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if method == http.MethodPost || method == http.MethodPut {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// A malformed body on an error status is still a usable rejection.
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized && !exemptFromTeardown(path) {
		c.logger.Warn("session rejected by server", "path", path)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}

	if resp.StatusCode >= 300 || (len(raw) > 0 && !env.Success) {
		return nil, &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return env.Pagination, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (*models.Pagination, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, http.MethodPost, path, nil, body, out)
	return err
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, http.MethodPut, path, nil, body, out)
	return err
}
