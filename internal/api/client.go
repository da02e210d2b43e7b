// Package api is the request/response pipeline shared by every feature
// repository. Each outbound request is stamped with an authorization header
// derived from the current persisted credential just before send, and every
// response passes through a single interceptor that normalizes failures and
// reacts to 401/403 by tearing down the session.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ticket-client/internal/credentials"
	"ticket-client/internal/status"
	"ticket-client/monitoring"
)

const fallbackErrorMessage = "an unexpected error occurred"

type Config struct {
	BaseURL string

	// Timeout is the single upper bound applied to all calls. Defaults to 60s.
	Timeout time.Duration

	Credentials credentials.Store
}

type Client struct {
	baseURL string
	creds   credentials.Store
	hc      *http.Client

	mu         sync.Mutex
	onAuthLost func()
}

func New(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	creds := cfg.Credentials
	if creds == nil {
		creds = credentials.NewMemStore()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		creds:   creds,
		hc: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetAuthLostHandler registers the hook invoked once per 401/403 response,
// before the originating call's own error is returned. Wired to the session
// manager's ForceInvalidate.
func (c *Client) SetAuthLostHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAuthLost = fn
}

func (c *Client) notifyAuthLost() {
	c.mu.Lock()
	fn := c.onAuthLost
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// do sends one request through the pipeline. endpoint is the stable metrics
// label for the route; path may carry resource ids. When override is non-nil
// its pair is used for the Basic header instead of the stored credential
// (login authenticates with the candidate pair, not a persisted one).
func (c *Client) do(ctx context.Context, method, endpoint, path string, query url.Values, contentType string, body io.Reader, out interface{}, override *credentials.Credential) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("api: new request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	if override != nil {
		req.SetBasicAuth(override.Username, override.Password)
	} else if cred, err := c.creds.Load(); err == nil && cred != nil {
		req.SetBasicAuth(cred.Username, cred.Password)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		monitoring.ObserveRequest(method, endpoint, 0, time.Since(start))
		return &status.RequestError{
			Message: err.Error(),
			Timeout: isTimeout(err),
			Err:     err,
		}
	}
	defer resp.Body.Close()
	monitoring.ObserveRequest(method, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		monitoring.ObserveAuthorizationLost()
		c.notifyAuthLost()
		return &status.RequestError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp),
			Err:        status.ErrAuthorizationLost,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &status.RequestError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("api: decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, path, query, "", nil, out, nil)
}

func (c *Client) postJSON(ctx context.Context, endpoint, path string, payload, out interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("api: encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, endpoint, path, nil, "application/json", bytes.NewReader(b), out, nil)
}

func (c *Client) putJSON(ctx context.Context, endpoint, path string, payload, out interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("api: encode request: %w", err)
	}
	return c.do(ctx, http.MethodPut, endpoint, path, nil, "application/json", bytes.NewReader(b), out, nil)
}

func (c *Client) deleteJSON(ctx context.Context, endpoint, path string) error {
	return c.do(ctx, http.MethodDelete, endpoint, path, nil, "", nil, nil, nil)
}

func (c *Client) postForm(ctx context.Context, endpoint, path string, form url.Values, override *credentials.Credential) error {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, endpoint, path, nil, "application/x-www-form-urlencoded", body, nil, override)
}

// errorMessage extracts a human-readable message from a failed response:
// the server's structured error body first, then the HTTP status text, then
// a fixed fallback.
func errorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}

	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fallbackErrorMessage
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
