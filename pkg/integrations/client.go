package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/modpublish/pkg/cache"
	"github.com/matzehuels/modpublish/pkg/httputil"
	"github.com/matzehuels/modpublish/pkg/observability"
)

// Client provides shared HTTP functionality for all platform API clients.
// It handles reference-data caching, default headers, status classification
// and JSON, multipart and raw request bodies.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	headers map[string]string
}

// NewClient creates a Client with the given cache and default headers.
// Cache keys are scoped to namespace with [cache.Scoped]; entries live
// for ttl.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	return &Client{
		http:    NewHTTPClient(),
		cache:   cache.Scoped(c, namespace),
		ttl:     ttl,
		headers: headers,
	}
}

// SetHTTPClient replaces the underlying *http.Client. Tests point it at an
// httptest server; callers may install a custom transport.
func (c *Client) SetHTTPClient(h *http.Client) {
	if h != nil {
		c.http = h
	}
}

// WithHeaders returns a copy of c that additionally sends headers.
// The copy shares the HTTP client and the cache with c. Platform clients use
// it to attach a per-request token.
func (c *Client) WithHeaders(headers map[string]string) *Client {
	merged := make(map[string]string, len(c.headers)+len(headers))
	for k, v := range c.headers {
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}
	cp := *c
	cp.headers = merged
	return &cp
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
// Fetch is retried on soft errors with [httputil.RetryWithDefaults].
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				observability.Cache().OnCacheHit(ctx, key)
				return nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, key)
	}
	if err := httputil.RetryWithDefaults(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, key, len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	return c.do(ctx, http.MethodGet, url, headers, nil, v)
}

// GetOrDefault performs an HTTP GET and reports found=false instead of an
// error when the resource does not exist. v is left untouched on 404.
func (c *Client) GetOrDefault(ctx context.Context, url string, v any) (found bool, err error) {
	err = c.Get(ctx, url, v)
	if he, ok := AsHTTPError(err); ok && he.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return err == nil, err
}

// PostJSON sends body as JSON and decodes the response into v (if non-nil).
func (c *Client) PostJSON(ctx context.Context, url string, body, v any) error {
	return c.sendJSON(ctx, http.MethodPost, url, body, v)
}

// PatchJSON sends body as JSON with PATCH and decodes the response into v (if non-nil).
func (c *Client) PatchJSON(ctx context.Context, url string, body, v any) error {
	return c.sendJSON(ctx, http.MethodPatch, url, body, v)
}

// Delete performs an HTTP DELETE.
func (c *Client) Delete(ctx context.Context, url string) error {
	return c.do(ctx, http.MethodDelete, url, nil, nil, nil)
}

// PostMultipart encodes form and POSTs it. Files are opened at encode time,
// so a retried call re-reads them from disk.
func (c *Client) PostMultipart(ctx context.Context, url string, form *Form, v any) error {
	contentType, body, err := form.Encode()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, url, map[string]string{"Content-Type": contentType}, body, v)
}

// PostRaw POSTs body with the given content type.
func (c *Client) PostRaw(ctx context.Context, url, contentType string, body []byte, v any) error {
	return c.do(ctx, http.MethodPost, url, map[string]string{"Content-Type": contentType}, body, v)
}

func (c *Client) sendJSON(ctx context.Context, method, url string, body, v any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", method, url, err)
	}
	return c.do(ctx, method, url, map[string]string{"Content-Type": "application/json"}, data, v)
}

func (c *Client) do(ctx context.Context, method, url string, headers map[string]string, body []byte, v any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", UserAgent())
	req.Header.Set("Accept", "application/json")
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, req.URL.Host, req.URL.Path, err)
		return httputil.Retryable(fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, url, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(method, url, resp); err != nil {
		return err
	}
	if v == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, url, err)
	}
	return nil
}

func checkStatus(method, url string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	he := &HTTPError{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       body,
	}
	if s := resp.Header.Get("Retry-After"); s != "" {
		he.RetryAfter, _ = strconv.Atoi(s)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return httputil.Retryable(he)
	}
	return he
}
