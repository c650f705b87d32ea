package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// SeasonalAdjustmentProvider returns the per-month seasonal index table for a
// station group: twelve ordered values, January first.
type SeasonalAdjustmentProvider interface {
	FetchMonthlyIndices(ctx context.Context, groupID uint) ([]float64, error)
}

// SeasonalAdjustmentClient scrapes the seasonal-adjustments page of the
// planning portal. The page renders the monthly table as input elements whose
// position encodes the month.
type SeasonalAdjustmentClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewSeasonalAdjustmentClient(baseURL string, timeout time.Duration) *SeasonalAdjustmentClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SeasonalAdjustmentClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// FetchMonthlyIndices fetches and parses the 12 month-index values for a group
func (c *SeasonalAdjustmentClient) FetchMonthlyIndices(ctx context.Context, groupID uint) ([]float64, error) {
	url := fmt.Sprintf("%s/groups/%d/seasonal-adjustments", c.BaseURL, groupID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching seasonal adjustments", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse response body failed: %w", err)
	}

	var (
		indices  []float64
		parseErr error
	)
	doc.Find("input.index-value").EachWithBreak(func(i int, s *goquery.Selection) bool {
		raw, ok := s.Attr("value")
		if !ok {
			parseErr = fmt.Errorf("index input %d has no value attribute", i+1)
			return false
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			parseErr = fmt.Errorf("index input %d holds non-numeric value %q", i+1, raw)
			return false
		}
		indices = append(indices, value)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if len(indices) != 12 {
		return nil, fmt.Errorf("expected 12 month indices, got %d", len(indices))
	}

	return indices, nil
}
