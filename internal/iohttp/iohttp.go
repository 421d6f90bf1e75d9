// Package iohttp sends JSON requests to external services on behalf of the
// geocoding, registry and strategy clients.
package iohttp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxErrBody limits how much of an error response ends up in errors.
const maxErrBody = 512

// Client calls one external service.
type Client struct {
	// Service names the service in errors and logs.
	Service string

	http *http.Client
}

// New creates a client with a per-request timeout.
func New(service string, timeout time.Duration) *Client {
	return &Client{
		Service: service,
		http:    &http.Client{Timeout: timeout},
	}
}

// Get sends a GET request and decodes the JSON answer into out.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return RequestError(c.Service, err)
	}
	return c.Do(req, out)
}

// Post sends body as JSON and decodes the JSON answer into out. Headers
// are added to the request.
func (c *Client) Post(
	ctx context.Context,
	url string,
	headers map[string]string,
	body, out any,
) error {
	bs, err := json.Marshal(body)
	if err != nil {
		return RequestError(c.Service, err)
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, url, bytes.NewReader(bs),
	)
	if err != nil {
		return RequestError(c.Service, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(req, out)
}

// Do executes req. Non-2xx answers become StatusError values.
func (c *Client) Do(req *http.Request, out any) error {
	t0 := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("Service request failed",
			"service", c.Service, "error", err)
		return RequestError(c.Service, err)
	}
	defer resp.Body.Close()

	slog.Debug("Service response",
		"service", c.Service,
		"status", resp.StatusCode,
		"duration_ms", time.Since(t0).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bs, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return StatusError(c.Service, resp.StatusCode, string(bs))
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return DecodeError(c.Service, err)
	}
	return nil
}
