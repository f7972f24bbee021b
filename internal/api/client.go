// Package api implements the REST client for the video platform backend.
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
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/mvickers/tubetui/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "tubetui/1.0"
	basePath       = "/api/v1"
)

// Client talks to the backend. It implements every repository interface in
// the domain package.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// Login runs in a command goroutine while other commands issue requests,
	// so the token needs its own lock.
	mu    sync.RWMutex
	token string
}

// NewClient creates a new API client for the server at baseURL.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// SetToken updates the access token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) getToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Ping checks that the backend is reachable and speaks our protocol.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/healthcheck", nil, nil)
	return err
}

// doRequest performs an authenticated HTTP request and returns the raw body.
// Payload, when non-nil, is JSON-encoded as the request body.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s%s", c.baseURL, basePath, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.getToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := extractErrorMessage(body)
		if sessionExpiredMessage(msg) {
			return nil, domain.ErrSessionExpired
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrItemNotFound
		}
		c.logger.Error("api request error", "status", resp.StatusCode, "message", msg)
		if msg != "" {
			return nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// htmlErrorRe pulls the message out of an Express-style HTML error page,
// which the backend serves instead of JSON for some unhandled errors.
var htmlErrorRe = regexp.MustCompile(`<pre>(?:Error: )?([^<\r\n]+)`)

// extractErrorMessage finds a human-readable message in an error response
// body: a structured { message } object first, then the HTML fallback.
func extractErrorMessage(body []byte) string {
	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &structured); err == nil && structured.Message != "" {
		return structured.Message
	}

	if m := htmlErrorRe.FindSubmatch(body); m != nil {
		msg := strings.TrimSpace(string(m[1]))
		if i := strings.IndexAny(msg, "\r\n"); i >= 0 {
			msg = strings.TrimSpace(msg[:i])
		}
		return msg
	}

	return ""
}

// sessionExpiredMessage reports whether an error message implies the token
// is no longer valid, independent of the status code.
func sessionExpiredMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "jwt expired") ||
		strings.Contains(m, "token expired") ||
		strings.Contains(m, "invalid access token")
}
