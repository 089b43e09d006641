package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/veloworks/user-service/internal/circuitbreaker"
)

// Talks to the notification service's preference-initialization
// endpoint behind a circuit breaker. Callers treat any outcome as
// informational: a failure here must never fail the surrounding flow.
type NotificationClient struct {
	baseURL string
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

// InitPreferencesResult reports what happened to a single call.
// Fallback means the breaker refused the call and no I/O was attempted.
type InitPreferencesResult struct {
	OK           bool
	Fallback     bool
	BreakerState circuitbreaker.State
}

func NewNotificationClient(baseURL string, timeout time.Duration, breaker *circuitbreaker.CircuitBreaker) *NotificationClient {
	return &NotificationClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

func (c *NotificationClient) InitPreferences(ctx context.Context, userID, email string) InitPreferencesResult {
	if !c.breaker.TryAcquire() {
		return InitPreferencesResult{Fallback: true, BreakerState: c.breaker.State()}
	}

	if err := c.initPreferences(ctx, userID, email); err != nil {
		c.breaker.RecordFailure()
		return InitPreferencesResult{BreakerState: c.breaker.State()}
	}

	c.breaker.RecordSuccess()
	return InitPreferencesResult{OK: true, BreakerState: c.breaker.State()}
}

func (c *NotificationClient) initPreferences(ctx context.Context, userID, email string) error {
	payload, err := json.Marshal(map[string]string{
		"userId": userID,
		"email":  email,
	})
	if err != nil {
		return err
	}

	url := c.baseURL + "/preferences/init"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("preference init request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	return nil
}
