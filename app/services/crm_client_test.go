package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRMClientListCampaigns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/campaigns", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("X-API-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"Spring push","project_id":7,"project_name":"Brand Spring","client_brand_id":3,"client_brand_name":"Acme"},
			{"id":2,"name":"Summer","project_id":8,"project_name":"Brand Summer","client_brand_id":3,"client_brand_name":"Acme"}
		]`))
	}))
	defer server.Close()

	client := NewCRMClient(server.URL, "secret-key", 5*time.Second)
	campaigns, err := client.ListCampaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Equal(t, uint(1), campaigns[0].ID)
	assert.Equal(t, "Spring push", campaigns[0].Name)
	assert.Equal(t, "Acme", campaigns[0].ClientBrandName)
}

func TestCRMClientNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewCRMClient(server.URL, "key", time.Second)
	_, err := client.ListCampaigns(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestCRMClientMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer server.Close()

	client := NewCRMClient(server.URL, "key", time.Second)
	_, err := client.ListCampaigns(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response failed")
}

func TestCRMClientTrimsTrailingSlash(t *testing.T) {
	client := NewCRMClient("https://crm.example.com/", "key", 0)
	assert.Equal(t, "https://crm.example.com", client.BaseURL)
	assert.Equal(t, 10*time.Second, client.HTTPClient.Timeout)
}
