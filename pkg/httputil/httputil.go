package httputil

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	snippetLimit   = 2048
)

// NewClient returns an HTTP client with a sane timeout. Uploads of large
// files should pass a longer timeout than the default.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// ReadBody drains and returns the full response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// IsSuccess reports whether the response carries a 2xx status.
func IsSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// StatusDetail formats an upstream status line plus a trimmed body snippet
// for inclusion in error messages.
func StatusDetail(resp *http.Response, body []byte) string {
	snippet := Snippet(body)
	if snippet == "" {
		return resp.Status
	}
	return fmt.Sprintf("%s: %s", resp.Status, snippet)
}

// Snippet collapses a response body into a single short line.
func Snippet(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > snippetLimit {
		s = s[:snippetLimit] + "..."
	}
	return s
}
