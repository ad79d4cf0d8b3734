// Package rest submits receipts to the household-finance REST backend. The
// endpoint URLs and auth headers are supplied by the caller; this adapter
// owns only the wire format and response normalization.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"kakeibo/internal/cache"
	"kakeibo/internal/gateway"
)

const categoriesCacheKey = "categories"

type Client struct {
	hc            *http.Client
	submitURL     string
	categoriesURL string
	headers       map[string]string
	catCache      *cache.LRUCache[[]gateway.Category]
}

// Ensure interface conformance
var (
	_ gateway.ReceiptSubmitter = (*Client)(nil)
	_ gateway.CategoryReader   = (*Client)(nil)
)

// New creates a REST client. headers (for example Authorization) are attached
// to every request; this package does not own authentication. Pass a nil
// httpClient to get a pooled default.
func New(submitURL, categoriesURL string, headers map[string]string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = newPooledHTTPClient()
	}
	return &Client{
		hc:            httpClient,
		submitURL:     submitURL,
		categoriesURL: categoriesURL,
		headers:       headers,
		catCache:      cache.NewLRUCache[[]gateway.Category](4, 5*time.Minute),
	}
}

// CategoryCache exposes the category cache for periodic expiry cleanup.
func (c *Client) CategoryCache() cache.Cleaner {
	return c.catCache
}

func newPooledHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	return &http.Client{
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			ForceAttemptHTTP2:   true,
		},
		Timeout: 30 * time.Second,
	}
}

// Submit POSTs the payload wrapped in a single-element array, as the endpoint
// expects. Any non-2xx status is a failure; the draft stays intact upstream.
func (c *Client) Submit(ctx context.Context, p gateway.ReceiptPayload) (gateway.SubmitResult, error) {
	body, err := json.Marshal([]gateway.ReceiptPayload{p})
	if err != nil {
		return gateway.SubmitResult{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.submitURL, bytes.NewReader(body))
	if err != nil {
		return gateway.SubmitResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return gateway.SubmitResult{}, fmt.Errorf("post receipt: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return gateway.SubmitResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gateway.SubmitResult{}, fmt.Errorf("submit failed: status %d: %s", resp.StatusCode, respBody)
	}

	return gateway.SubmitResult{OK: true, Ref: extractRef(respBody)}, nil
}

// Categories fetches the remote category list, serving repeated calls from a
// short-lived cache. The result is already normalized into the canonical shape.
func (c *Client) Categories(ctx context.Context) ([]gateway.Category, error) {
	if cached, ok := c.catCache.Get(categoriesCacheKey); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.categoriesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get categories: status %d", resp.StatusCode)
	}

	var raw []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	cats := make([]gateway.Category, 0, len(raw))
	for _, m := range raw {
		cats = append(cats, normalizeCategory(m))
	}

	c.catCache.Set(categoriesCacheKey, cats)
	return cats, nil
}
