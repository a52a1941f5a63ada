package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fyrsmithlabs/trackd/internal/goals"
	"github.com/fyrsmithlabs/trackd/internal/ledger"
)

// Client queries a running trackd daemon.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the daemon at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// FetchStats fetches summary statistics from the daemon.
func (c *Client) FetchStats(ctx context.Context) (ledger.Stats, error) {
	var body struct {
		Status string       `json:"status"`
		Stats  ledger.Stats `json:"stats"`
	}
	if err := c.get(ctx, "/get_stats", &body); err != nil {
		return ledger.Stats{}, err
	}
	return body.Stats, nil
}

// FetchTrends fetches the trailing daily-minute series.
func (c *Client) FetchTrends(ctx context.Context, days int) ([]ledger.TrendPoint, error) {
	var body struct {
		Status string              `json:"status"`
		Trends []ledger.TrendPoint `json:"trends"`
	}
	path := fmt.Sprintf("/get_trends?days=%d", days)
	if err := c.get(ctx, path, &body); err != nil {
		return nil, err
	}
	return body.Trends, nil
}

// FetchGoals fetches goals with their last computed progress.
func (c *Client) FetchGoals(ctx context.Context) ([]goals.Goal, error) {
	var body struct {
		Status string       `json:"status"`
		Goals  []goals.Goal `json:"goals"`
	}
	if err := c.get(ctx, "/get_goals", &body); err != nil {
		return nil, err
	}
	return body.Goals, nil
}
