package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/bpnlt/radioplan/app/services"
	"github.com/stretchr/testify/assert"
)

type stubCampaignProvider struct {
	campaigns []services.CampaignSummary
	err       error
}

func (s *stubCampaignProvider) ListCampaigns(ctx context.Context) ([]services.CampaignSummary, error) {
	return s.campaigns, s.err
}

func TestListCampaigns(t *testing.T) {
	ctx := context.Background()

	provider := &stubCampaignProvider{campaigns: []services.CampaignSummary{
		{ID: 1, Name: "Spring push", ClientBrandName: "Acme"},
	}}
	flow := NewCampaignFlow(provider)

	campaigns := flow.ListCampaigns(ctx)
	assert.Len(t, campaigns, 1)
	assert.Equal(t, "Spring push", campaigns[0].Name)
}

func TestListCampaignsDegradesToEmpty(t *testing.T) {
	ctx := context.Background()

	// No provider configured
	assert.Empty(t, NewCampaignFlow(nil).ListCampaigns(ctx))

	// Provider errors out
	flow := NewCampaignFlow(&stubCampaignProvider{err: errors.New("connection refused")})
	campaigns := flow.ListCampaigns(ctx)
	assert.NotNil(t, campaigns)
	assert.Empty(t, campaigns)

	// Provider returns a nil slice
	flow = NewCampaignFlow(&stubCampaignProvider{})
	campaigns = flow.ListCampaigns(ctx)
	assert.NotNil(t, campaigns)
	assert.Empty(t, campaigns)
}
