package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// apiClient talks to the reclaim daemon API.
type apiClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func newAPIClient(server, token string) *apiClient {
	base := server
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &apiClient{
		baseURL:    strings.TrimRight(base, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&failure); decodeErr == nil && failure.Error != "" {
			return fmt.Errorf("%s", failure.Error)
		}
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *apiClient) status(ctx context.Context) (*statusView, error) {
	var view statusView
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *apiClient) pending(ctx context.Context, kind string) ([]reportView, error) {
	path := "/api/pending"
	if kind != "" {
		path += "?kind=" + url.QueryEscape(kind)
	}
	var views []reportView
	if err := c.do(ctx, http.MethodGet, path, nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *apiClient) show(ctx context.Context, kind, itemID string) (*reportView, error) {
	if kind == "" {
		kind = "any"
	}
	var view reportView
	path := fmt.Sprintf("/api/reports/%s/%s", url.PathEscape(kind), url.PathEscape(itemID))
	if err := c.do(ctx, http.MethodGet, path, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *apiClient) verify(ctx context.Context, itemID string) (*verifyView, error) {
	var view verifyView
	path := fmt.Sprintf("/api/items/%s/verify", url.PathEscape(itemID))
	if err := c.do(ctx, http.MethodPost, path, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *apiClient) claim(ctx context.Context, itemID, proofNote string) (*claimView, error) {
	var view claimView
	path := fmt.Sprintf("/api/items/%s/claim", url.PathEscape(itemID))
	body := map[string]string{"proofNote": proofNote}
	if err := c.do(ctx, http.MethodPost, path, body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *apiClient) cancel(ctx context.Context, itemID string) error {
	path := fmt.Sprintf("/api/items/%s/cancel", url.PathEscape(itemID))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *apiClient) archive(ctx context.Context, itemID string) error {
	path := fmt.Sprintf("/api/items/%s/archive", url.PathEscape(itemID))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *apiClient) inbox(ctx context.Context, uid string) ([]notificationView, error) {
	var views []notificationView
	path := "/api/inbox/" + url.PathEscape(uid)
	if err := c.do(ctx, http.MethodGet, path, nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *apiClient) markInboxRead(ctx context.Context, uid string) error {
	path := "/api/inbox/" + url.PathEscape(uid) + "/read"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}
