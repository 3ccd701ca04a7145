// Package enrollment talks to the fingerprint reader module that scans and
// stores templates. The reader assigns a small integer template id, which the
// person management flow then writes into one of the person's slots.
package enrollment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"aforo/internal/sentinel"
	"aforo/pkg/domain"
)

// Client calls the enrollment reader over HTTP. The reader blocks until a
// finger is placed on the sensor or its own timeout expires, so the request
// timeout must be generous.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates an enrollment client for the reader at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// deviceResponse is the reader's wire format.
type deviceResponse struct {
	Status   string `json:"status"`
	HuellaID string `json:"huellaID"`
}

// Enroll asks the reader to scan a finger and returns the assigned template
// id. A single attempt, no retries: the operator re-triggers enrollment from
// the UI if the scan fails.
func (c *Client) Enroll(ctx context.Context) (domain.FingerprintID, error) {
	if c.baseURL == "" {
		return domain.FingerprintUnset, fmt.Errorf("enrollment reader not configured: %w", sentinel.ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/registrarHuella", nil)
	if err != nil {
		return domain.FingerprintUnset, fmt.Errorf("build enrollment request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.FingerprintUnset, fmt.Errorf("call enrollment reader: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.FingerprintUnset, fmt.Errorf("enrollment reader returned status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var body deviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.FingerprintUnset, fmt.Errorf("decode enrollment response: %w", err)
	}

	if body.Status != "success" {
		return domain.FingerprintUnset, fmt.Errorf("sensor reported status %q: %w", body.Status, sentinel.ErrUnavailable)
	}

	fid, err := domain.ParseFingerprintID(body.HuellaID)
	if err != nil || !fid.IsSet() {
		return domain.FingerprintUnset, fmt.Errorf("sensor returned invalid template id %q: %w", body.HuellaID, sentinel.ErrInvalidInput)
	}
	return fid, nil
}
