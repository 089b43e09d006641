package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Talks to the analytics service's internal cleanup endpoint.
type AnalyticsClient struct {
	baseURL string
	http    *http.Client
}

func NewAnalyticsClient(baseURL string, timeout time.Duration) *AnalyticsClient {
	return &AnalyticsClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// DeleteUser removes the user's analytics data. Called after the local
// user record is already gone, so a failure here means the two systems
// have diverged; the caller is responsible for raising the alert.
func (c *AnalyticsClient) DeleteUser(ctx context.Context, userID string) error {
	url := fmt.Sprintf("%s/v1/internal/users/%s", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("analytics cleanup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("analytics service returned status %d", resp.StatusCode)
	}

	return nil
}
