package handlers

import (
	"context"
	"time"

	"github.com/bpnlt/radioplan/app/dto"
	businessflow "github.com/bpnlt/radioplan/business_flow"
	"github.com/bpnlt/radioplan/utils"
	"github.com/gofiber/fiber/v3"
)

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	ListCampaigns(c fiber.Ctx) error
}

// CampaignHandler proxies campaign metadata from the projects CRM
type CampaignHandler struct {
	campaignFlow businessflow.CampaignFlow
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow) *CampaignHandler {
	return &CampaignHandler{campaignFlow: campaignFlow}
}

func (h *CampaignHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListCampaigns returns the campaign list from the CRM. An unreachable CRM
// yields an empty list rather than an error.
func (h *CampaignHandler) ListCampaigns(c fiber.Ctx) error {
	campaigns := h.campaignFlow.ListCampaigns(h.createRequestContext(c, "/api/v1/campaigns"))
	return h.SuccessResponse(c, fiber.StatusOK, "Campaigns retrieved successfully", campaigns)
}

func (h *CampaignHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
