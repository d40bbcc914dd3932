package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is a small outbound JSON client used by pull-based data sources
// (the calendar event feed). Bodies are marshaled as JSON; responses are
// decoded as JSON unless the caller asks for raw bytes.
type Client struct {
	hc *http.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets the whole-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.hc.Timeout = timeout
	}
}

// NewClient creates an outbound HTTP client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{hc: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOptions holds one request's parameters.
type RequestOptions struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   url.Values
	Body    interface{} // marshaled as JSON when non-nil
}

// SendRequest sends the request and returns the raw response. The caller
// owns the body.
func (c *Client) SendRequest(ctx context.Context, opts *RequestOptions) (*http.Response, error) {
	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if len(opts.Query) > 0 {
		req.URL.RawQuery = opts.Query.Encode()
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// SendAndParse sends the request, requires a 2xx status, and decodes the
// response body into dest (JSON struct pointer or *[]byte; nil discards).
func (c *Client) SendAndParse(ctx context.Context, opts *RequestOptions, dest interface{}) error {
	resp, err := c.SendRequest(ctx, opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, b)
	}

	switch v := dest.(type) {
	case nil:
		return nil
	case *[]byte:
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		*v = b
		return nil
	default:
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
		return nil
	}
}
