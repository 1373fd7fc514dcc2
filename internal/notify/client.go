// Package notify fires a best-effort "data refreshed" signal to the
// downstream dashboard.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client sends the refresh signal.
type Client struct {
	host       string
	port       string
	httpClient HTTPClient
}

// NewClient creates a notify client targeting host:port.
func NewClient(host, port string, opts ...ClientOption) *Client {
	c := &Client{
		host:       host,
		port:       port,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// URL returns the refresh endpoint this client targets.
func (c *Client) URL() string {
	return fmt.Sprintf("http://%s:%s/refresh", c.host, c.port)
}

// Notify sends a single GET to the refresh endpoint. Any 2xx response
// counts as success. Callers log failures; nothing here is retried.
func (c *Client) Notify(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected response status: %d", resp.StatusCode)
	}

	return nil
}
