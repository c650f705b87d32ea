package businessflow

import (
	"context"
	"log"

	"github.com/bpnlt/radioplan/app/services"
)

// CampaignFlow exposes campaign metadata from the projects CRM
type CampaignFlow interface {
	ListCampaigns(ctx context.Context) []services.CampaignSummary
}

// CampaignFlowImpl implements the campaign metadata flow
type CampaignFlowImpl struct {
	provider services.CampaignProvider
}

// NewCampaignFlow creates a new campaign flow
func NewCampaignFlow(provider services.CampaignProvider) CampaignFlow {
	return &CampaignFlowImpl{provider: provider}
}

// ListCampaigns fetches campaigns from the CRM. An unreachable CRM degrades
// to an empty list so planners can still work with plans they already have.
func (f *CampaignFlowImpl) ListCampaigns(ctx context.Context) []services.CampaignSummary {
	if f.provider == nil {
		return []services.CampaignSummary{}
	}

	campaigns, err := f.provider.ListCampaigns(ctx)
	if err != nil {
		log.Printf("campaign fetch failed: %v", err)
		return []services.CampaignSummary{}
	}
	if campaigns == nil {
		campaigns = []services.CampaignSummary{}
	}
	return campaigns
}
