package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OverlayRequest is the single-job submission payload
type OverlayRequest struct {
	SourceURL   string `json:"source_url"`
	LabelName   string `json:"label_name"`
	PlatformTag string `json:"platform_tag"`
}

// BatchOverlayRequest is the batch submission payload
type BatchOverlayRequest struct {
	SourceURL    string   `json:"source_url"`
	LabelName    string   `json:"label_name"`
	PlatformTags []string `json:"platform_tags"`
}

// OverlayResponse is the service's success envelope
type OverlayResponse struct {
	Results []OverlayResult `json:"results"`
}

// APIClient is a thin HTTP client for the overlay service
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a new overlay service client. Jobs render
// synchronously inside the request, so the timeout is generous.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

// Health checks that the service answers its liveness probe
func (c *APIClient) Health() error {
	resp, err := c.client.Get(c.baseURL + "/api/health")
	if err != nil {
		return fmt.Errorf("failed to reach service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service returned %d", resp.StatusCode)
	}
	return nil
}

// SubmitOverlay runs a single overlay job and returns the published results
func (c *APIClient) SubmitOverlay(req OverlayRequest) ([]OverlayResult, error) {
	return c.post("/api/overlay", req)
}

// SubmitBatch runs one overlay job per platform tag against a single source
func (c *APIClient) SubmitBatch(req BatchOverlayRequest) ([]OverlayResult, error) {
	return c.post("/api/overlay/batch", req)
}

func (c *APIClient) post(path string, payload interface{}) ([]OverlayResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to submit job: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var envelope OverlayResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return envelope.Results, nil
}
