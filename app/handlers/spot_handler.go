package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/bpnlt/radioplan/app/dto"
	businessflow "github.com/bpnlt/radioplan/business_flow"
	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// SpotHandlerInterface defines the contract for spot handlers
type SpotHandlerInterface interface {
	UpsertSpot(c fiber.Ctx) error
	ListSpots(c fiber.Ctx) error
}

// SpotHandler handles spot placement HTTP requests
type SpotHandler struct {
	spotFlow  businessflow.SpotFlow
	validator *validator.Validate
}

// NewSpotHandler creates a new spot handler
func NewSpotHandler(spotFlow businessflow.SpotFlow) *SpotHandler {
	return &SpotHandler{
		spotFlow:  spotFlow,
		validator: validator.New(),
	}
}

func (h *SpotHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SpotHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// UpsertSpot places, resizes or removes a spot on a plan's calendar
func (h *SpotHandler) UpsertSpot(c fiber.Ctx) error {
	planID, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid plan id", "INVALID_REQUEST", nil)
	}

	var req dto.UpsertSpotRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}
	req.PlanID = planID

	spot, err := h.spotFlow.UpsertSpot(h.createRequestContext(c, "/api/v1/plans/:id/spots"), &req)
	if err != nil {
		if businessflow.IsPlanNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", "PLAN_NOT_FOUND", nil)
		}
		if businessflow.IsStationNotInPlan(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Station does not belong to the plan", "STATION_NOT_IN_PLAN", nil)
		}
		log.Println("Spot upsert failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Spot upsert failed", "SPOT_UPSERT_FAILED", err.Error())
	}

	if spot == nil {
		return h.SuccessResponse(c, fiber.StatusOK, "Spot removed successfully", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Spot saved successfully", toSpotResponse(spot))
}

// ListSpots lists a plan's spots with derived metrics
func (h *SpotHandler) ListSpots(c fiber.Ctx) error {
	planID, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid plan id", "INVALID_REQUEST", nil)
	}

	spots, err := h.spotFlow.ListSpots(h.createRequestContext(c, "/api/v1/plans/:id/spots"), planID)
	if err != nil {
		if businessflow.IsPlanNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", "PLAN_NOT_FOUND", nil)
		}
		log.Println("Spot listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list spots", "SPOT_LIST_FAILED", nil)
	}

	out := make([]dto.SpotResponse, 0, len(spots))
	for _, spot := range spots {
		out = append(out, toSpotResponse(spot))
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Spots retrieved successfully", out)
}

func toSpotResponse(spot *models.Spot) dto.SpotResponse {
	resp := dto.SpotResponse{
		ID:             spot.ID,
		StationID:      spot.StationID,
		TimeSlot:       spot.TimeSlot,
		Date:           utils.FormatDate(spot.Date),
		Weekday:        spot.Weekday,
		IsWeekendRow:   spot.IsWeekendRow,
		SpotCount:      spot.SpotCount,
		ClipDuration:   spot.ClipDuration,
		GRP:            spot.GRP,
		TRP:            spot.TRP,
		Affinity:       spot.Affinity,
		BasePrice:      spot.BasePrice,
		SeasonalIndex:  spot.SeasonalIndex,
		PriceWithIndex: spot.PriceWithIndex,
		FinalPrice:     spot.FinalPrice,
		PricePerTRP:    spot.PricePerTRP,
	}
	if spot.Station != nil {
		resp.StationName = spot.Station.Name
	}
	return resp
}

func (h *SpotHandler) validateStruct(c fiber.Ctx, req any) error {
	if err := h.validator.Struct(req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return nil
}

func (h *SpotHandler) paramUint(c fiber.Ctx, name string) (uint, error) {
	raw, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(raw), nil
}

func (h *SpotHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
