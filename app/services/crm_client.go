package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CampaignSummary is the campaign record exposed by the projects CRM
type CampaignSummary struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	ProjectID       uint   `json:"project_id"`
	ProjectName     string `json:"project_name"`
	ClientBrandID   uint   `json:"client_brand_id"`
	ClientBrandName string `json:"client_brand_name"`
}

// CampaignProvider fetches campaign metadata from the projects CRM
type CampaignProvider interface {
	ListCampaigns(ctx context.Context) ([]CampaignSummary, error)
}

// CRMClient talks to the projects CRM over its JSON API
type CRMClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewCRMClient(baseURL, apiKey string, timeout time.Duration) *CRMClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CRMClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// ListCampaigns fetches the campaign list. The response is consumed
// read-only and passed through to planners.
func (c *CRMClient) ListCampaigns(ctx context.Context) ([]CampaignSummary, error) {
	url := c.BaseURL + "/api/campaigns"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("X-API-Key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching campaigns", resp.StatusCode)
	}

	var campaigns []CampaignSummary
	if err := json.NewDecoder(resp.Body).Decode(&campaigns); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	return campaigns, nil
}
