// Package notify dispatches pacing milestone notifications to a webhook.
// Dispatch is fire-and-forget: failures are reported to the caller for
// logging and never affect the mutation that triggered them.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Dispatcher posts milestone events to a configured webhook.
type Dispatcher struct {
	webhookURL string
	client     *http.Client
}

// New creates a dispatcher. An empty webhook URL disables dispatch.
func New(webhookURL string) *Dispatcher {
	return &Dispatcher{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Dispatch sends one milestone notification with the day's completion count.
func (d *Dispatcher) Dispatch(milestone, count int) error {
	if d.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(map[string]int{
		"milestone": milestone,
		"count":     count,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	resp, err := d.client.Post(d.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notification dispatch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned status %d", resp.StatusCode)
	}
	return nil
}
