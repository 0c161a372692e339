package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// client wraps http.Client with a JSON POST helper.
type client struct {
	http *http.Client
}

func newClient(timeout time.Duration) *client {
	return &client{http: &http.Client{Timeout: timeout}}
}

func (c *client) postJSON(ctx context.Context, url string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, payload)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// matchRequest mirrors the service's POST /match payload.
type matchRequest struct {
	Candidate *model.Candidate   `json:"candidate"`
	Job       *model.Job         `json:"job"`
	Context   model.MatchContext `json:"context"`
}

// batchRequest mirrors the service's POST /transport/batch payload.
type batchRequest struct {
	Candidate *model.Candidate `json:"candidate"`
	Jobs      []*model.Job     `json:"jobs"`
}

type batchResponse struct {
	Scores map[string]model.ComponentScore `json:"scores"`
}

func (c *client) match(ctx context.Context, baseURL string, req matchRequest) (model.MatchResult, error) {
	var result model.MatchResult
	err := c.postJSON(ctx, baseURL+"/match", req, &result)
	return result, err
}

func (c *client) batch(ctx context.Context, baseURL string, req batchRequest) (batchResponse, error) {
	var result batchResponse
	err := c.postJSON(ctx, baseURL+"/transport/batch", req, &result)
	return result, err
}
