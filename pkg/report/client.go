package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client fetches reports from a running API server. The server's engine
// stays the single source of truth; the reporter only consumes what the
// report endpoint serves.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API server at baseURL. A zero
// timeout defaults to 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves the current report from the API server.
func (c *Client) Fetch(ctx context.Context) (*Report, error) {
	url := c.baseURL + "/api/v1/report"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report request failed: HTTP %d for %s", resp.StatusCode, url)
	}

	var r Report
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	return &r, nil
}
