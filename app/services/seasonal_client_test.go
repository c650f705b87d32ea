package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adjustmentPage(values ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><form>")
	for _, v := range values {
		fmt.Fprintf(&b, `<input class="index-value" type="text" value=%q>`, v)
	}
	b.WriteString("</form></body></html>")
	return b.String()
}

func TestSeasonalClientFetchMonthlyIndices(t *testing.T) {
	values := []string{"1.1", "1.0", "1.25", "0.95", "1.0", "0.9", "0.8", "0.85", "1.05", "1.1", "1.2", "1.3"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/groups/7/seasonal-adjustments", r.URL.Path)
		_, _ = w.Write([]byte(adjustmentPage(values...)))
	}))
	defer server.Close()

	client := NewSeasonalAdjustmentClient(server.URL, 5*time.Second)
	indices, err := client.FetchMonthlyIndices(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, indices, 12)
	assert.InDelta(t, 1.1, indices[0], 1e-9)
	assert.InDelta(t, 1.25, indices[2], 1e-9)
	assert.InDelta(t, 1.3, indices[11], 1e-9)
}

func TestSeasonalClientWrongValueCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(adjustmentPage("1.0", "1.1", "0.9")))
	}))
	defer server.Close()

	client := NewSeasonalAdjustmentClient(server.URL, time.Second)
	_, err := client.FetchMonthlyIndices(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 12 month indices, got 3")
}

func TestSeasonalClientNonNumericValue(t *testing.T) {
	values := []string{"1.1", "oops", "1.0", "1.0", "1.0", "1.0", "1.0", "1.0", "1.0", "1.0", "1.0", "1.0"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(adjustmentPage(values...)))
	}))
	defer server.Close()

	client := NewSeasonalAdjustmentClient(server.URL, time.Second)
	_, err := client.FetchMonthlyIndices(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-numeric value")
}

func TestSeasonalClientNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewSeasonalAdjustmentClient(server.URL, time.Second)
	_, err := client.FetchMonthlyIndices(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}
