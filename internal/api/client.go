// Package api provides the HTTP gateway to the Encore platform backend.
//
// Every screen-level client in this repo goes through this package rather
// than re-deriving token handling: requests carry the bearer token from
// the session cookie, responses are unwrapped by content type, and a 401
// applies the process-wide policy (clear the cached cookie, surface
// ErrUnauthorized) regardless of which caller hit it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource func() (string, error)

// Client is the gateway for all backend API calls.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      TokenSource

	// onUnauthorized runs once per 401 response, before the error is
	// returned to the caller. Wired to auth.ClearCached in cmd.
	onUnauthorized func()
}

// NewClient creates an API gateway for the given origin.
// onUnauthorized may be nil.
func NewClient(baseURL string, token TokenSource, timeout time.Duration, onUnauthorized func()) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(baseURL, "/"),
		token:          token,
		onUnauthorized: onUnauthorized,
	}
}

// Get performs a GET request and decodes a JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body (may be nil) and decodes
// a JSON response into out.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with a JSON body (may be nil) and decodes
// a JSON response into out.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request and decodes a JSON response into out.
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

// Upload sends a multipart form body. contentType must be the writer's
// FormDataContentType so the boundary survives; the body is never
// JSON-serialized here. method is POST for create, PUT for update.
func (c *Client) Upload(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.send(req, out)
}

// Download fetches raw bytes from an absolute media URL, carrying the
// same bearer token as API calls.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	tok, err := c.token()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.newError(resp.StatusCode, data, resp.Header.Get("Content-Type"))
	}
	return data, nil
}

// doJSON builds a request with an optional JSON body and dispatches it.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// send attaches auth, performs the request, and unwraps the response.
func (c *Client) send(req *http.Request, out interface{}) error {
	tok, err := c.token()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	startTime := time.Now()
	log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Msg("API request")

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Debug().Int("statusCode", 0).Dur("duration", duration).Err(err).Msg("API response")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().Int("statusCode", resp.StatusCode).Dur("duration", duration).Msg("API response")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.newError(resp.StatusCode, data, resp.Header.Get("Content-Type"))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		// Text response; callers wanting the body use a *string out.
		// Anything else expected a JSON record, so the mismatch is a
		// contract error, not a zero-valued success.
		if s, ok := out.(*string); ok {
			*s = string(data)
			return nil
		}
		return fmt.Errorf("unexpected content type %q (body: %s)", ct, truncate(string(data), 200))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w (body: %s)", err, truncate(string(data), 200))
	}
	return nil
}

// newError builds the structured error for a non-2xx response and applies
// the global 401 policy.
func (c *Client) newError(status int, body []byte, contentType string) error {
	apiErr := &Error{
		Status: status,
		Body:   string(body),
	}

	if strings.Contains(contentType, "application/json") {
		var msg struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(body, &msg) == nil {
			if msg.Message != "" {
				apiErr.Message = msg.Message
			} else if msg.Error != "" {
				apiErr.Message = msg.Error
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(truncate(string(body), 200))
	}

	if status == http.StatusUnauthorized {
		log.Warn().Msg("Session expired (401), clearing cached token")
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}
	return apiErr
}

// truncate returns the first n characters of s, appending "..." if truncated.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
