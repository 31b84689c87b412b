package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPClient talks to the tracker's REST API.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	fields  *FieldCache
}

// NewHTTPClient creates a tracker client. fieldTTL bounds how long list
// field metadata is reused before being refetched.
func NewHTTPClient(baseURL, token string, fieldTTL time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
		fields:  NewFieldCache(fieldTTL),
	}
}

// TasksForClient fetches all of a client's tasks from the tracker.
func (c *HTTPClient) TasksForClient(ctx context.Context, clientName string) ([]Task, error) {
	endpoint := fmt.Sprintf("%s/clients/%s/tasks", c.baseURL, url.PathEscape(clientName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tracker request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracker request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracker returned status %d", resp.StatusCode)
	}

	var payload struct {
		Tasks []Task `json:"tasks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode tracker response: %w", err)
	}
	return payload.Tasks, nil
}

// SetTaskStage writes a task's stage back to the tracker. The stage value
// is mapped through the list's field metadata, fetched on demand and
// cached with a TTL.
func (c *HTTPClient) SetTaskStage(ctx context.Context, taskID, stage string) error {
	fields, err := c.listFields(ctx)
	if err != nil {
		return err
	}

	value := stage
	if mapped, ok := fields.StageOptions[stage]; ok {
		value = mapped
	}

	body, err := json.Marshal(map[string]string{"stage": value})
	if err != nil {
		return fmt.Errorf("failed to encode stage update: %w", err)
	}

	endpoint := fmt.Sprintf("%s/tasks/%s", c.baseURL, url.PathEscape(taskID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build tracker request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("tracker request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		// A stale field mapping is the usual cause; drop it so the next
		// write refetches.
		c.fields.Invalidate()
		return fmt.Errorf("tracker returned status %d", resp.StatusCode)
	}
	return nil
}

// listFields returns the tracker's field metadata, from cache when fresh.
func (c *HTTPClient) listFields(ctx context.Context) (*ListFields, error) {
	if cached := c.fields.Get(); cached != nil {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/fields", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tracker request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracker request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracker returned status %d", resp.StatusCode)
	}

	var fields ListFields
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to decode field metadata: %w", err)
	}

	c.fields.Put(&fields)
	return &fields, nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
