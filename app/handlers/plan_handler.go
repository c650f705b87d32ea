package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/bpnlt/radioplan/app/dto"
	businessflow "github.com/bpnlt/radioplan/business_flow"
	"github.com/bpnlt/radioplan/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PlanHandlerInterface defines the contract for plan handlers
type PlanHandlerInterface interface {
	CreatePlan(c fiber.Ctx) error
	GetPlan(c fiber.Ctx) error
	ListPlans(c fiber.Ctx) error
	DeletePlan(c fiber.Ctx) error
	UpdateDiscounts(c fiber.Ctx) error
	ListCapturedData(c fiber.Ctx) error
	UpdateCapturedIndex(c fiber.Ctx) error
	AggregatePlan(c fiber.Ctx) error
	ExportPlan(c fiber.Ctx) error
}

// PlanHandler handles plan-related HTTP requests
type PlanHandler struct {
	planFlow   businessflow.PlanFlow
	exportFlow businessflow.ExportFlow
	validator  *validator.Validate
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planFlow businessflow.PlanFlow, exportFlow businessflow.ExportFlow) *PlanHandler {
	return &PlanHandler{
		planFlow:   planFlow,
		exportFlow: exportFlow,
		validator:  validator.New(),
	}
}

func (h *PlanHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *PlanHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreatePlan creates a plan with its clips, stations and captured snapshot
func (h *PlanHandler) CreatePlan(c fiber.Ctx) error {
	var req dto.CreatePlanRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	plan, err := h.planFlow.CreatePlan(h.createRequestContext(c, "/api/v1/plans"), &req)
	if err != nil {
		if businessflow.IsStationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Station not found", "STATION_NOT_FOUND", nil)
		}
		log.Println("Plan creation failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Plan creation failed", "PLAN_CREATION_FAILED", err.Error())
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Plan created successfully", plan)
}

// GetPlan returns a plan with clips, stations and spots
func (h *PlanHandler) GetPlan(c fiber.Ctx) error {
	id, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid plan id", "INVALID_REQUEST", nil)
	}

	plan, err := h.planFlow.GetPlan(h.createRequestContext(c, "/api/v1/plans/:id"), id)
	if err != nil {
		if businessflow.IsPlanNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", "PLAN_NOT_FOUND", nil)
		}
		log.Println("Plan retrieval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Plan retrieval failed", "PLAN_RETRIEVAL_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Plan retrieved successfully", plan)
}

// ListPlans lists plans, most recent first
func (h *PlanHandler) ListPlans(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	plans, err := h.planFlow.ListPlans(h.createRequestContext(c, "/api/v1/plans"), limit, offset)
	if err != nil {
		log.Println("Plan listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list plans", "PLAN_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Plans retrieved successfully", plans)
}

// DeletePlan removes a plan
func (h *PlanHandler) DeletePlan(c fiber.Ctx) error {
	id, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid plan id", "INVALID_REQUEST", nil)
	}

	if err := h.planFlow.DeletePlan(h.createRequestContext(c, "/api/v1/plans/:id"), id); err != nil {
		if businessflow.IsPlanNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", "PLAN_NOT_FOUND", nil)
		}
		log.Println("Plan deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Plan deletion failed", "PLAN_DELETION_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Plan deleted successfully", nil)
}

// UpdateDiscounts changes a plan's discounts and recomputes its spots
func (h *PlanHandler) UpdateDiscounts(c fiber.Ctx) error {
	id, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid plan id", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateDiscountsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}
	req.PlanID = id

	plan, err := h.planFlow.UpdateDiscounts(h.createRequestContext(c, "/api/v1/plans/:id/discounts"), &req)
	if err != nil {
		if businessflow.IsPlanNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", "PLAN_NOT_FOUND", nil)
		}
		if businessflow.IsDiscountOutOfRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Discount must be between 0 and 100", "DISCOUNT_OUT_OF_RANGE", nil)
		}
		log.Println("Discount update failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Discount update failed", "DISCOUNT_UPDATE_FAILED", err.Error())
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Discounts updated successfully", plan)
}

// ListCapturedData returns a plan's frozen snapshot rows
func (h *PlanHandler) ListCapturedData(c fiber.Ctx) error {
	id, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid plan id", "INVALID_REQUEST", nil)
	}

	rows, err := h.planFlow.ListCapturedData(h.createRequestContext(c, "/api/v1/plans/:id/captured-data"), id)
	if err != nil {
		if businessflow.IsPlanNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", "PLAN_NOT_FOUND", nil)
		}
		log.Println("Captured data listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list captured data", "CAPTURED_DATA_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Captured data retrieved successfully", rows)
}

// UpdateCapturedIndex overrides the captured seasonal index for one station
// and month on the plan's snapshot
func (h *PlanHandler) UpdateCapturedIndex(c fiber.Ctx) error {
	id, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid plan id", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateCapturedIndexRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}
	req.PlanID = id

	if err := h.planFlow.UpdateCapturedIndex(h.createRequestContext(c, "/api/v1/plans/:id/captured-index"), &req); err != nil {
		if businessflow.IsPlanNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", "PLAN_NOT_FOUND", nil)
		}
		if businessflow.IsStationNotInPlan(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Station does not belong to the plan", "STATION_NOT_IN_PLAN", nil)
		}
		if businessflow.IsCapturedDataNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Captured data not found", "CAPTURED_DATA_NOT_FOUND", nil)
		}
		log.Println("Captured index update failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Captured index update failed", "CAPTURED_INDEX_UPDATE_FAILED", err.Error())
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Captured index updated successfully", nil)
}

// AggregatePlan returns the calendar aggregation of a plan's spots
func (h *PlanHandler) AggregatePlan(c fiber.Ctx) error {
	id, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid plan id", "INVALID_REQUEST", nil)
	}

	plan, err := h.planFlow.GetPlan(h.createRequestContext(c, "/api/v1/plans/:id/aggregate"), id)
	if err != nil {
		if businessflow.IsPlanNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", "PLAN_NOT_FOUND", nil)
		}
		log.Println("Plan aggregation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Plan aggregation failed", "PLAN_AGGREGATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Plan aggregated successfully", businessflow.AggregatePlan(plan))
}

// ExportPlan streams the plan as an xlsx workbook
func (h *PlanHandler) ExportPlan(c fiber.Ctx) error {
	id, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid plan id", "INVALID_REQUEST", nil)
	}

	filename, content, err := h.exportFlow.ExportPlan(h.createRequestContext(c, "/api/v1/plans/:id/export"), id)
	if err != nil {
		if businessflow.IsPlanNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", "PLAN_NOT_FOUND", nil)
		}
		log.Println("Plan export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Plan export failed", "PLAN_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}

func (h *PlanHandler) validateStruct(c fiber.Ctx, req any) error {
	if err := h.validator.Struct(req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return nil
}

func (h *PlanHandler) paramUint(c fiber.Ctx, name string) (uint, error) {
	raw, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(raw), nil
}

func (h *PlanHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *PlanHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
