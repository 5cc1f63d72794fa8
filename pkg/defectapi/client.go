// Package defectapi talks to the remote defect reports API.
package defectapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Adda-Baaj/defect-reporter/internal/domain"
	"github.com/Adda-Baaj/defect-reporter/pkg/httpclient"
)

// DefectsPath is the collection resource relative to the base URL.
const DefectsPath = "/defeitos"

// Client reads and creates defect reports.
type Client struct {
	http httpclient.Client
}

// New wraps an HTTP client already bound to the API base URL.
func New(c httpclient.Client) *Client {
	return &Client{http: c}
}

// List fetches all stored reports in server order.
func (c *Client) List(ctx context.Context) ([]domain.Defect, error) {
	resp, err := c.http.Get(ctx, DefectsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", DefectsPath, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusError(http.MethodGet, resp)
	}

	var defects []domain.Defect
	if err := json.Unmarshal(resp.Body(), &defects); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", DefectsPath, err)
	}
	if defects == nil {
		defects = []domain.Defect{}
	}
	return defects, nil
}

// Create submits a new report and returns the stored representation.
func (c *Client) Create(ctx context.Context, d domain.Defect) (domain.Defect, error) {
	d.ID = ""
	resp, err := c.http.PostJSON(ctx, DefectsPath, d, nil)
	if err != nil {
		return domain.Defect{}, fmt.Errorf("post %s: %w", DefectsPath, err)
	}
	if sc := resp.StatusCode(); sc != http.StatusOK && sc != http.StatusCreated {
		return domain.Defect{}, statusError(http.MethodPost, resp)
	}

	var stored domain.Defect
	if err := json.Unmarshal(resp.Body(), &stored); err != nil {
		return domain.Defect{}, fmt.Errorf("decode %s response: %w", DefectsPath, err)
	}
	return stored, nil
}

// StatusError reports a non-success HTTP status from the API.
type StatusError struct {
	Method string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d body: %s", strings.ToLower(e.Method), DefectsPath, e.Status, e.Body)
}

func statusError(method string, resp httpclient.Response) error {
	return &StatusError{Method: method, Status: resp.StatusCode(), Body: responseSnippet(resp.Body())}
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
