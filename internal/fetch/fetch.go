// Package fetch downloads remote datasets over HTTP with retries.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Client downloads files with optional Bearer auth and retry logic.
type Client struct {
	token      string
	httpClient *http.Client
	backoff    time.Duration
	maxRetries int
}

// StatusError represents a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string // first 512 bytes
	retryAfter string // Retry-After header value for 429s
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures Client behavior.
type Option func(*Client)

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithBackoff sets the first retry delay; later retries double it.
// Default: 1s.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		backoff:    time.Second,
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsURL reports whether s is an http or https URL rather than a local path.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Download fetches rawURL into dir and returns the local path. The file is
// named after the last URL path segment, or dataset.csv if there is none.
// Retries on 429 (honoring Retry-After) and 5xx with exponential backoff.
func (c *Client) Download(ctx context.Context, rawURL, dir string) (string, error) {
	dest := filepath.Join(dir, fileName(rawURL))

	var lastErr *StatusError
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoffDelay(attempt, lastErr)
			slog.Warn("fetch: retrying download", "url", rawURL, "attempt", attempt, "wait", wait, "status", lastErr.StatusCode)
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return "", ctx.Err()
			case <-t.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return "", fmt.Errorf("fetch: %w", err)
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("fetch: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			n, err := save(resp.Body, dest)
			resp.Body.Close()
			if err != nil {
				return "", fmt.Errorf("fetch: %w", err)
			}
			slog.Info("fetch: dataset downloaded", "url", rawURL, "path", dest, "bytes", n)
			return dest, nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}

		if resp.StatusCode == http.StatusTooManyRequests {
			statusErr.retryAfter = resp.Header.Get("Retry-After")
			lastErr = statusErr
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = statusErr
			continue
		}
		return "", fmt.Errorf("fetch: %w", statusErr)
	}

	return "", fmt.Errorf("fetch: %w", lastErr)
}

// save streams r to a temp file beside dest and renames it into place.
func save(r io.Reader, dest string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	return n, os.Rename(tmp.Name(), dest)
}

func fileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "dataset.csv"
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || strings.TrimSpace(name) == "" {
		return "dataset.csv"
	}
	return name
}

// backoffDelay returns the wait duration before a retry attempt.
func (c *Client) backoffDelay(attempt int, lastErr *StatusError) time.Duration {
	if lastErr != nil && lastErr.StatusCode == http.StatusTooManyRequests && lastErr.retryAfter != "" {
		if secs, err := strconv.Atoi(lastErr.retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return c.backoff << (attempt - 1)
}
