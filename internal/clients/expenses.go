package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DebtStatus is the three-way outcome of the financial-safety check.
// Unknown means the status could not be verified; callers must treat
// it as blocking (fail closed).
type DebtStatus int

const (
	DebtStatusUnknown DebtStatus = iota
	DebtStatusAllowed
	DebtStatusBlocked
)

func (s DebtStatus) String() string {
	switch s {
	case DebtStatusAllowed:
		return "allowed"
	case DebtStatusBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Talks to the expenses service's internal debt-status endpoint.
type ExpensesClient struct {
	baseURL string
	http    *http.Client
}

func NewExpensesClient(baseURL string, timeout time.Duration) *ExpensesClient {
	return &ExpensesClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// CheckDebtStatus returns whether the user may be deleted according to
// the expenses service. A 404 means the user has no financial records
// and is treated as deletable. Any other non-200 response, transport
// failure or undecodable body yields DebtStatusUnknown with the cause.
func (c *ExpensesClient) CheckDebtStatus(ctx context.Context, userID string) (DebtStatus, error) {
	url := fmt.Sprintf("%s/api/v1/internal/users/%s/debtStatus", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return DebtStatusUnknown, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return DebtStatusUnknown, fmt.Errorf("debt status request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// No financial records for this user
		return DebtStatusAllowed, nil
	case resp.StatusCode != http.StatusOK:
		return DebtStatusUnknown, fmt.Errorf("expenses service returned status %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			CanDelete bool `json:"canDelete"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return DebtStatusUnknown, fmt.Errorf("failed to decode debt status response: %w", err)
	}

	if body.Data.CanDelete {
		return DebtStatusAllowed, nil
	}
	return DebtStatusBlocked, nil
}
