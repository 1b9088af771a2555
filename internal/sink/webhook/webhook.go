// Package webhook posts expenses to a user-configured HTTP endpoint, such as
// a Google Apps Script web app bound to the spreadsheet.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"expensepad/internal/core"
	"expensepad/internal/sink"
)

var _ sink.Sender = (*Client)(nil)

// URLSource yields the endpoint at send time; "" means not configured.
type URLSource func() string

type Client struct {
	url  URLSource
	http *http.Client
}

// New builds a client. A nil httpClient uses http.DefaultClient, so the
// platform's own timeouts apply.
func New(url URLSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, http: httpClient}
}

// Send POSTs the expense as JSON. No I/O happens when no URL is configured.
func (c *Client) Send(ctx context.Context, e core.Expense) error {
	endpoint := ""
	if c.url != nil {
		endpoint = c.url()
	}
	if endpoint == "" {
		return sink.Unconfigured("endpoint url")
	}

	body, err := json.Marshal(e)
	if err != nil {
		return sink.Transport(fmt.Errorf("encode expense: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return sink.Transport(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return sink.Transport(fmt.Errorf("post expense: %w", err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return sink.Transport(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	slog.DebugContext(ctx, "Expense posted to webhook", "id", e.ID, "status_code", resp.StatusCode)
	return nil
}

// NewHTTPClient returns a client with bounded dial and handshake times.
// A zero timeout leaves the overall request unbounded.
func NewHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}
