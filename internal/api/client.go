// Package api wraps the Paytrack dashboard REST API. Every call goes
// through one request pipeline that attaches bearer credentials and
// normalizes any failure into a *RequestError.
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
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultBaseURL is the local development backend.
const DefaultBaseURL = "http://localhost:5000"

// TokenFunc supplies the current bearer token, or empty when anonymous.
type TokenFunc func() string

// RequestError is the single error kind surfaced by the client: any
// non-success HTTP status or transport failure, carrying the best
// human-readable message available.
type RequestError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// Client issues authenticated requests against the dashboard API.
// It performs a single best-effort round trip per call: no retries,
// no caching. Timeouts come from the injected http.Client.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenFunc
	logger  *slog.Logger
}

// New creates a client for baseURL. A nil httpClient falls back to
// http.DefaultClient; a nil token func means unauthenticated requests.
func New(baseURL string, httpClient *http.Client, token TokenFunc, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if token == nil {
		token = func() string { return "" }
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		token:   token,
		logger:  logger,
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues one request and decodes the JSON response into out (which
// may be nil for calls whose body is discarded). The response body is
// read fully as text first; bodies that fail to parse as JSON are kept
// as raw text for error reporting.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &RequestError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Message: err.Error()}
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, text)}
	}

	if out == nil || len(bytes.TrimSpace(text)) == 0 {
		return nil
	}
	if err := json.Unmarshal(text, out); err != nil {
		return &RequestError{Status: resp.StatusCode, Message: "unexpected response: " + truncate(string(text), 200)}
	}
	return nil
}

// errorMessage extracts the most useful message from a failed response:
// the body's message field, else the raw body text, else a generic
// status line.
func errorMessage(status int, text []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(text, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if trimmed := strings.TrimSpace(string(text)); trimmed != "" {
		return truncate(trimmed, 200)
	}
	return "Request failed (" + strconv.Itoa(status) + ")"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	req := map[string]string{"email": email, "password": password}
	var creds Credentials
	if err := c.Do(ctx, http.MethodPost, "/auth/dashboard/tenant/login", req, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Signup registers a new tenant account.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*Credentials, error) {
	req := map[string]string{"name": name, "email": email, "password": password}
	var creds Credentials
	if err := c.Do(ctx, http.MethodPost, "/auth/dashboard/tenant/signup", req, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// FetchDashboard returns the tenant profile and configuration.
func (c *Client) FetchDashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := c.Do(ctx, http.MethodGet, "/tenants/dashboard/configs", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateConfig performs a full-replace update of the tenant
// configuration and returns the server's authoritative copy.
func (c *Client) UpdateConfig(ctx context.Context, update ConfigUpdate) (*TenantConfig, error) {
	var resp struct {
		Config TenantConfig `json:"config"`
	}
	if err := c.Do(ctx, http.MethodPut, "/tenants/dashboard/configs", update, &resp); err != nil {
		return nil, err
	}
	return &resp.Config, nil
}

// FetchWallet returns one page of wallet summary + transactions. An
// empty cursor fetches the first page; limit 0 uses the server default.
func (c *Client) FetchWallet(ctx context.Context, cursor string, limit int) (*WalletPage, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := "/tenants/dashboard/wallet"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var page WalletPage
	if err := c.Do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchKey returns the tenant's API key record.
func (c *Client) FetchKey(ctx context.Context) (*APIKey, error) {
	var key APIKey
	if err := c.Do(ctx, http.MethodGet, "/tenants/dashboard/key", nil, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// GenerateKey creates the tenant's first API key.
func (c *Client) GenerateKey(ctx context.Context) (*APIKey, error) {
	var key APIKey
	req := map[string]string{"action": "generate"}
	if err := c.Do(ctx, http.MethodPost, "/tenants/dashboard/key", req, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// RegenerateKey replaces the current key in place.
func (c *Client) RegenerateKey(ctx context.Context) (*APIKey, error) {
	var key APIKey
	req := map[string]string{"action": "regenerate"}
	if err := c.Do(ctx, http.MethodPatch, "/tenants/dashboard/key", req, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// RevokeKey soft-deletes the current key.
func (c *Client) RevokeKey(ctx context.Context) error {
	return c.Do(ctx, http.MethodDelete, "/tenants/dashboard/key", nil, nil)
}
