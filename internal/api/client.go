// ABOUTME: HTTP client for the parlor chat service with session cookie auth
// ABOUTME: Shared request plumbing used by the per-endpoint methods

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// sessionCookieName is the cookie the service reads for authentication.
const sessionCookieName = "session"

// Client talks to the parlor chat service over HTTP. The session token is
// opaque to the client; obtaining one (login, registration) happens outside
// this package.
type Client struct {
	baseURL string
	session string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client for the service at baseURL. Pass nil logger for default.
func New(baseURL, session string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		session: session,
		http:    http.DefaultClient,
		logger:  logger.With("component", "api"),
	}
}

// SetHTTPClient replaces the underlying HTTP client. Used by tests.
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// StatusError is returned when the service responds with a non-2xx status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("server returned status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// newRequest builds a request with the session cookie attached.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.session})
	}

	return req, nil
}

// doJSON executes the request and decodes a JSON response into out.
// Non-2xx statuses become a *StatusError with the body preserved for logging.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Status: resp.StatusCode, Body: string(body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
