package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const httpTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when a repository, file, or package doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned when the upstream answers 429 Too Many Requests.
	ErrRateLimited = errors.New("rate limited")
)

// NewHTTPClient creates an HTTP client with a standard timeout for upstream requests.
// The per-attempt timeout of [httputil.Policy] is normally shorter and wins.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizePkgName converts a package name to the canonical form used in
// cache keys. npm and Packagist names are case-insensitive.
func NormalizePkgName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// PathEscape percent-encodes a single path segment.
// Scoped npm names keep their "@" but have the "/" escaped.
func PathEscape(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), "%40", "@")
}
