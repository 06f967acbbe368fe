package moderation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reclaim/internal/services"
)

// Verdict is the tri-state result of an image safety check.
type Verdict int

const (
	// Indeterminate means the classifier could not produce a decision. It is
	// never treated as a pass; callers must abort the image-add.
	Indeterminate Verdict = iota
	Safe
	Unsafe
)

// String renders the verdict for logs and errors.
func (v Verdict) String() string {
	switch v {
	case Safe:
		return "safe"
	case Unsafe:
		return "unsafe"
	default:
		return "indeterminate"
	}
}

// Gate checks images against an external safety classifier.
type Gate interface {
	CheckImage(ctx context.Context, image []byte) (Verdict, error)
}

// Client talks to the moderation service over HTTP.
type Client struct {
	baseURL    string
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

// NewClient constructs a moderation client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type moderateRequest struct {
	Image string `json:"image"`
}

type moderateResponse struct {
	IsSafe *bool `json:"isSafe"`
}

// CheckImage submits one image and interprets the tri-state response. A
// transport failure is returned as an error; a well-formed response with a
// missing or null isSafe field is Indeterminate without error.
func (c *Client) CheckImage(ctx context.Context, image []byte) (Verdict, error) {
	if len(image) == 0 {
		return Indeterminate, services.Wrap(services.ErrValidation, "moderation", "check image", "empty image payload", nil)
	}

	body, err := json.Marshal(moderateRequest{Image: dataURI(image)})
	if err != nil {
		return Indeterminate, services.Wrap(services.ErrUnavailable, "moderation", "check image", "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/moderate-image", bytes.NewReader(body))
	if err != nil {
		return Indeterminate, services.Wrap(services.ErrUnavailable, "moderation", "check image", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Indeterminate, services.Wrap(services.ErrUnavailable, "moderation", "check image", "call classifier", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Non-2xx is interpreted as Indeterminate rather than a hard error:
		// the caller still fails closed on the batch, with the verdict intact.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Indeterminate, nil
	}

	var decoded moderateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Indeterminate, nil
	}
	if decoded.IsSafe == nil {
		return Indeterminate, nil
	}
	if *decoded.IsSafe {
		return Safe, nil
	}
	return Unsafe, nil
}

func dataURI(image []byte) string {
	mime := http.DetectContentType(image)
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(image))
}
