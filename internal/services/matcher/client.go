package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reclaim/internal/report"
	"reclaim/internal/services"
)

// Service finds scored candidate pairings for a report. The call is
// directional and one-shot: lost reports are scored against the found
// collection and vice versa.
type Service interface {
	FindMatches(ctx context.Context, rep *report.Report) ([]report.MatchResult, error)
}

// Client talks to the external matching service over HTTP.
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

// NewClient constructs a matcher client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
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

type wireMatch struct {
	TransactionID string             `json:"transactionId"`
	LostItem      report.Snapshot    `json:"lostItem"`
	FoundItem     report.Snapshot    `json:"foundItem"`
	Scores        report.MatchScores `json:"scores"`
}

// FindMatches calls the matching service and normalizes its response into a
// score-descending list. Non-2xx responses are a hard failure for this call
// only; the caller decides whether to degrade.
func (c *Client) FindMatches(ctx context.Context, rep *report.Report) ([]report.MatchResult, error) {
	path, payload := requestFor(rep)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "matcher", "find matches", "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "matcher", "find matches", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "matcher", "find matches", "call service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, services.Wrap(services.ErrUnavailable, "matcher", "find matches",
			fmt.Sprintf("service returned status %d", resp.StatusCode), nil)
	}

	var wire []wireMatch
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "matcher", "find matches", "decode response", err)
	}

	matches := make([]report.MatchResult, 0, len(wire))
	for i, entry := range wire {
		if err := validScores(entry.Scores); err != nil {
			return nil, services.Wrap(services.ErrUnavailable, "matcher", "find matches",
				fmt.Sprintf("candidate %d", i+1), err)
		}
		counterpart := entry.FoundItem
		if rep.Kind == report.KindFound {
			counterpart = entry.LostItem
		}
		matches = append(matches, report.MatchResult{
			TransactionID: entry.TransactionID,
			Counterpart:   counterpart,
			Scores:        entry.Scores,
		})
	}

	report.SortMatches(matches)
	return matches, nil
}

func requestFor(rep *report.Report) (string, map[string]string) {
	if rep.Kind == report.KindLost {
		return "/match/lost-to-found", map[string]string{"uidLost": rep.ItemID}
	}
	return "/match/found-to-lost", map[string]string{"uidFound": rep.ItemID}
}

func validScores(scores report.MatchScores) error {
	for name, value := range map[string]int{
		"overallScore":     scores.OverallScore,
		"descriptionScore": scores.DescriptionScore,
		"imageScore":       scores.ImageScore,
	} {
		if value < 0 || value > 100 {
			return fmt.Errorf("%s %d outside 0-100", name, value)
		}
	}
	return nil
}
