package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reclaim/internal/services"
)

// Sender delivers one email. Delivery is best-effort: callers log failures
// and never surface them to the end user or retry synchronously.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Client talks to the email relay over HTTP.
type Client struct {
	baseURL    string
	from       string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a mailer client for the given relay base URL.
func NewClient(baseURL, from string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		baseURL:    baseURL,
		from:       from,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type sendRequest struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send posts one message to the relay.
func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	if strings.TrimSpace(to) == "" {
		return services.Wrap(services.ErrValidation, "mailer", "send", "empty recipient address", nil)
	}

	body, err := json.Marshal(sendRequest{From: c.from, To: to, Subject: subject, HTML: html})
	if err != nil {
		return services.Wrap(services.ErrUnavailable, "mailer", "send", "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send-email", bytes.NewReader(body))
	if err != nil {
		return services.Wrap(services.ErrUnavailable, "mailer", "send", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrUnavailable, "mailer", "send", "call relay", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return services.Wrap(services.ErrUnavailable, "mailer", "send",
			fmt.Sprintf("relay returned status %d", resp.StatusCode), nil)
	}
	return nil
}

// Noop discards all messages. Used when email delivery is disabled.
type Noop struct{}

// Send implements Sender.
func (Noop) Send(context.Context, string, string, string) error { return nil }
