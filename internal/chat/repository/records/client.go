package records

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client is the HTTP wrapper for the training-records REST API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a new records HTTP client.
func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{},
	}
}

// GetRecord fetches one user's training record via GET /api/v1/records/{userID}.
func (c *Client) GetRecord(ctx context.Context, userID string) (*Record, error) {
	url := fmt.Sprintf("%s/api/v1/records/%s", c.baseURL, userID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build get record request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call records get API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("records API get error %d: %s", resp.StatusCode, string(raw))
	}

	var record Record
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode records get response: %w", err)
	}
	return &record, nil
}

// ---- Request/Response types scoped to this package ----

// Record is the records API training-record object.
type Record struct {
	UserID          string   `json:"userId"`
	OverallProgress float64  `json:"overallProgress"`
	Completed       []Course `json:"completed"`
	Pending         []Course `json:"pending"`
}

// Course is one course entry of a record.
type Course struct {
	CourseID   string  `json:"courseId"`
	Title      string  `json:"title"`
	Progress   float64 `json:"progress"`
	DueDate    string  `json:"dueDate"`
	MandateTag string  `json:"mandateTag"`
}
