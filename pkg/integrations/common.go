package integrations

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/modpublish/pkg/buildinfo"
)

const httpTimeout = 5 * time.Minute

var (
	// ErrNotFound is returned when a project, version or release doesn't exist on the platform.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures (timeouts, connection errors, 429 and 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned for 401 and 403 responses, usually a missing or under-scoped token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRejected is returned for other 4xx responses. The platform usually
	// explains why in the response body, see [HTTPError.Decode].
	ErrRejected = errors.New("request rejected")
)

// HTTPError describes a non-2xx response. The body is kept so that platform
// packages can decode their structured error format from it.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	RetryAfter int // seconds, from the Retry-After header when present
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	if body := strings.TrimSpace(string(e.Body)); body != "" {
		if len(body) > 512 {
			body = body[:512] + "..."
		}
		msg += ": " + body
	}
	return msg
}

// Unwrap maps the status code onto the package sentinels so that callers can
// use errors.Is(err, integrations.ErrNotFound) and friends.
func (e *HTTPError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode == http.StatusTooManyRequests, e.StatusCode >= 500:
		return ErrNetwork
	default:
		return ErrRejected
	}
}

// Decode unmarshals the response body into v.
func (e *HTTPError) Decode(v any) error {
	if len(e.Body) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(e.Body, v)
}

// AsHTTPError extracts an *HTTPError from err's chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// NewHTTPClient creates an HTTP client with a timeout suited to file uploads.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// UserAgent is sent with every request. Modrinth rejects requests without one.
func UserAgent() string {
	return "modpublish/" + buildinfo.Version + " (+https://github.com/matzehuels/modpublish)"
}

// URLEncode percent-encodes a string for use as a URL path segment.
// This is a convenience wrapper around [url.PathEscape].
func URLEncode(s string) string { return url.PathEscape(s) }

// JoinURL appends path segments to base, escaping each segment.
func JoinURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(URLEncode(s))
	}
	return b.String()
}
