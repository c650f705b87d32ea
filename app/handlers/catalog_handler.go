package handlers

import (
	"bytes"
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

// CatalogHandlerInterface defines the contract for rate catalog handlers
type CatalogHandlerInterface interface {
	ListGroups(c fiber.Ctx) error
	CreateGroup(c fiber.Ctx) error
	DeleteGroup(c fiber.Ctx) error
	ListStations(c fiber.Ctx) error
	CreateStation(c fiber.Ctx) error
	DeleteStation(c fiber.Ctx) error
	ListSlotPrices(c fiber.Ctx) error
	UpsertSlotPrice(c fiber.Ctx) error
	ListZonePrices(c fiber.Ctx) error
	UpsertZonePrice(c fiber.Ctx) error
	ListRatings(c fiber.Ctx) error
	UpsertRating(c fiber.Ctx) error
	ProbePrice(c fiber.Ctx) error
	ListSeasonalIndices(c fiber.Ctx) error
	SetSeasonalIndex(c fiber.Ctx) error
	ProbeSeasonalIndex(c fiber.Ctx) error
	ImportPrices(c fiber.Ctx) error
	ImportRatings(c fiber.Ctx) error
}

// CatalogHandler handles rate catalog HTTP requests
type CatalogHandler struct {
	catalogFlow  businessflow.CatalogFlow
	pricingFlow  businessflow.PricingFlow
	seasonalFlow businessflow.SeasonalFlow
	importFlow   businessflow.ImportFlow
	validator    *validator.Validate
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	catalogFlow businessflow.CatalogFlow,
	pricingFlow businessflow.PricingFlow,
	seasonalFlow businessflow.SeasonalFlow,
	importFlow businessflow.ImportFlow,
) *CatalogHandler {
	return &CatalogHandler{
		catalogFlow:  catalogFlow,
		pricingFlow:  pricingFlow,
		seasonalFlow: seasonalFlow,
		importFlow:   importFlow,
		validator:    validator.New(),
	}
}

func (h *CatalogHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CatalogHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListGroups returns all station groups with their stations
func (h *CatalogHandler) ListGroups(c fiber.Ctx) error {
	groups, err := h.catalogFlow.ListGroups(h.createRequestContext(c, "/api/v1/groups"))
	if err != nil {
		log.Println("Group listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list groups", "GROUP_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Groups retrieved successfully", groups)
}

// CreateGroup creates a new station group
func (h *CatalogHandler) CreateGroup(c fiber.Ctx) error {
	var req dto.CreateGroupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	group, err := h.catalogFlow.CreateGroup(h.createRequestContext(c, "/api/v1/groups"), req.Name)
	if err != nil {
		if businessflow.IsGroupNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Group not found", "GROUP_NOT_FOUND", nil)
		}
		log.Println("Group creation failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Group creation failed", "GROUP_CREATION_FAILED", err.Error())
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Group created successfully", group)
}

// DeleteGroup removes a group and its stations
func (h *CatalogHandler) DeleteGroup(c fiber.Ctx) error {
	id, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid group id", "INVALID_REQUEST", nil)
	}

	if err := h.catalogFlow.DeleteGroup(h.createRequestContext(c, "/api/v1/groups/:id"), id); err != nil {
		if businessflow.IsGroupNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Group not found", "GROUP_NOT_FOUND", nil)
		}
		log.Println("Group deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Group deletion failed", "GROUP_DELETION_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Group deleted successfully", nil)
}

// ListStations returns stations, optionally filtered by group
func (h *CatalogHandler) ListStations(c fiber.Ctx) error {
	var groupID *uint
	if raw := c.Query("group_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid group id", "INVALID_REQUEST", nil)
		}
		groupID = utils.ToPtr(uint(parsed))
	}

	stations, err := h.catalogFlow.ListStations(h.createRequestContext(c, "/api/v1/stations"), groupID)
	if err != nil {
		log.Println("Station listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list stations", "STATION_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Stations retrieved successfully", stations)
}

// CreateStation creates a new station under a group
func (h *CatalogHandler) CreateStation(c fiber.Ctx) error {
	var req dto.CreateStationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	station, err := h.catalogFlow.CreateStation(h.createRequestContext(c, "/api/v1/stations"), req.Name, req.GroupID)
	if err != nil {
		if businessflow.IsGroupNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Group not found", "GROUP_NOT_FOUND", nil)
		}
		log.Println("Station creation failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Station creation failed", "STATION_CREATION_FAILED", err.Error())
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Station created successfully", station)
}

// DeleteStation removes a station
func (h *CatalogHandler) DeleteStation(c fiber.Ctx) error {
	id, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid station id", "INVALID_REQUEST", nil)
	}

	if err := h.catalogFlow.DeleteStation(h.createRequestContext(c, "/api/v1/stations/:id"), id); err != nil {
		if businessflow.IsStationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Station not found", "STATION_NOT_FOUND", nil)
		}
		log.Println("Station deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Station deletion failed", "STATION_DELETION_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Station deleted successfully", nil)
}

// ListSlotPrices returns a station's flat time-slot prices
func (h *CatalogHandler) ListSlotPrices(c fiber.Ctx) error {
	stationID, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid station id", "INVALID_REQUEST", nil)
	}

	prices, err := h.catalogFlow.ListSlotPrices(h.createRequestContext(c, "/api/v1/stations/:id/prices"), stationID)
	if err != nil {
		log.Println("Slot price listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list slot prices", "SLOT_PRICE_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Slot prices retrieved successfully", prices)
}

// UpsertSlotPrice sets a flat time-slot price
func (h *CatalogHandler) UpsertSlotPrice(c fiber.Ctx) error {
	stationID, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid station id", "INVALID_REQUEST", nil)
	}

	var req dto.UpsertSlotPriceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}
	req.StationID = stationID

	price, err := h.catalogFlow.UpsertSlotPrice(h.createRequestContext(c, "/api/v1/stations/:id/prices"), req.StationID, req.TimeSlot, req.IsWeekend, req.Price)
	if err != nil {
		if businessflow.IsStationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Station not found", "STATION_NOT_FOUND", nil)
		}
		log.Println("Slot price upsert failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Slot price upsert failed", "SLOT_PRICE_UPSERT_FAILED", err.Error())
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Slot price saved successfully", price)
}

// ListZonePrices returns a station's zone/duration prices
func (h *CatalogHandler) ListZonePrices(c fiber.Ctx) error {
	stationID, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid station id", "INVALID_REQUEST", nil)
	}

	prices, err := h.catalogFlow.ListZonePrices(h.createRequestContext(c, "/api/v1/stations/:id/zone-prices"), stationID)
	if err != nil {
		log.Println("Zone price listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list zone prices", "ZONE_PRICE_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Zone prices retrieved successfully", prices)
}

// UpsertZonePrice sets a zone/duration price
func (h *CatalogHandler) UpsertZonePrice(c fiber.Ctx) error {
	stationID, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid station id", "INVALID_REQUEST", nil)
	}

	var req dto.UpsertZonePriceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}
	req.StationID = stationID

	price, err := h.catalogFlow.UpsertZonePrice(h.createRequestContext(c, "/api/v1/stations/:id/zone-prices"), req.StationID, models.Zone(req.Zone), req.Duration, req.IsWeekend, req.Price)
	if err != nil {
		if businessflow.IsStationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Station not found", "STATION_NOT_FOUND", nil)
		}
		log.Println("Zone price upsert failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Zone price upsert failed", "ZONE_PRICE_UPSERT_FAILED", err.Error())
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Zone price saved successfully", price)
}

// ListRatings returns a station's audience ratings
func (h *CatalogHandler) ListRatings(c fiber.Ctx) error {
	stationID, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid station id", "INVALID_REQUEST", nil)
	}

	ratings, err := h.catalogFlow.ListRatings(h.createRequestContext(c, "/api/v1/stations/:id/ratings"), stationID)
	if err != nil {
		log.Println("Rating listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list ratings", "RATING_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Ratings retrieved successfully", ratings)
}

// UpsertRating sets an audience rating
func (h *CatalogHandler) UpsertRating(c fiber.Ctx) error {
	stationID, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid station id", "INVALID_REQUEST", nil)
	}

	var req dto.UpsertRatingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}
	req.StationID = stationID

	rating, err := h.catalogFlow.UpsertRating(h.createRequestContext(c, "/api/v1/stations/:id/ratings"), req.StationID, req.TimeSlot, req.TargetAudience, req.IsWeekend, req.GRP, req.TRP)
	if err != nil {
		if businessflow.IsStationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Station not found", "STATION_NOT_FOUND", nil)
		}
		log.Println("Rating upsert failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Rating upsert failed", "RATING_UPSERT_FAILED", err.Error())
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Rating saved successfully", rating)
}

// ProbePrice resolves the effective price for a station slot
func (h *CatalogHandler) ProbePrice(c fiber.Ctx) error {
	stationID, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid station id", "INVALID_REQUEST", nil)
	}

	timeSlot := c.Query("time_slot")
	if timeSlot == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "time_slot is required", "INVALID_REQUEST", nil)
	}
	duration := utils.DefaultClipDurationSeconds
	if raw := c.Query("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration <= 0 {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid duration", "INVALID_REQUEST", nil)
		}
	}
	isWeekend := c.Query("is_weekend") == "true"

	resolution, err := h.pricingFlow.ResolvePrice(h.createRequestContext(c, "/api/v1/stations/:id/price"), stationID, timeSlot, duration, isWeekend)
	if err != nil {
		log.Println("Price probe failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Price probe failed", "PRICE_PROBE_FAILED", err.Error())
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Price resolved successfully", dto.PriceProbeResponse{
		Price:    resolution.Price,
		Source:   string(resolution.Source),
		Zone:     resolution.Zone.String(),
		Duration: resolution.Duration,
	})
}

// ListSeasonalIndices returns all active seasonal indices
func (h *CatalogHandler) ListSeasonalIndices(c fiber.Ctx) error {
	indices, err := h.seasonalFlow.ListIndices(h.createRequestContext(c, "/api/v1/seasonal-indices"))
	if err != nil {
		log.Println("Seasonal index listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list seasonal indices", "SEASONAL_INDEX_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Seasonal indices retrieved successfully", indices)
}

// SetSeasonalIndex stores a seasonal index value for a month
func (h *CatalogHandler) SetSeasonalIndex(c fiber.Ctx) error {
	var req dto.SetSeasonalIndexRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	index, err := h.seasonalFlow.SetIndex(h.createRequestContext(c, "/api/v1/seasonal-indices"), req.Name, req.Month, req.GroupID, req.IndexValue)
	if err != nil {
		log.Println("Seasonal index save failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Seasonal index save failed", "SEASONAL_INDEX_SAVE_FAILED", err.Error())
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Seasonal index saved successfully", index)
}

// ProbeSeasonalIndex resolves the index a station would get for a month
func (h *CatalogHandler) ProbeSeasonalIndex(c fiber.Ctx) error {
	stationID, err := h.paramUint(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid station id", "INVALID_REQUEST", nil)
	}
	month, err := strconv.Atoi(c.Params("month"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid month", "INVALID_REQUEST", nil)
	}

	value, err := h.seasonalFlow.ProbeIndex(h.createRequestContext(c, "/api/v1/seasonal-indices/station/:id/month/:month"), stationID, month)
	if err != nil {
		if businessflow.IsStationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Station not found", "STATION_NOT_FOUND", nil)
		}
		log.Println("Seasonal index probe failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Seasonal index probe failed", "SEASONAL_INDEX_PROBE_FAILED", err.Error())
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Seasonal index resolved successfully", dto.SeasonalProbeResponse{
		StationID:  stationID,
		Month:      month,
		IndexValue: value,
	})
}

// ImportPrices bulk-loads slot prices from an uploaded workbook
func (h *CatalogHandler) ImportPrices(c fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Workbook file is required", "INVALID_REQUEST", nil)
	}

	summary, err := h.importFlow.ImportPrices(h.createRequestContext(c, "/api/v1/import/prices"), bytes.NewReader(body))
	if err != nil {
		if businessflow.IsImportFileInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Import file is invalid", "IMPORT_FILE_INVALID", nil)
		}
		log.Println("Price import failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Price import failed", "PRICE_IMPORT_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Prices imported successfully", summary)
}

// ImportRatings bulk-loads ratings from an uploaded workbook
func (h *CatalogHandler) ImportRatings(c fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Workbook file is required", "INVALID_REQUEST", nil)
	}

	summary, err := h.importFlow.ImportRatings(h.createRequestContext(c, "/api/v1/import/ratings"), bytes.NewReader(body))
	if err != nil {
		if businessflow.IsImportFileInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Import file is invalid", "IMPORT_FILE_INVALID", nil)
		}
		log.Println("Rating import failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Rating import failed", "RATING_IMPORT_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Ratings imported successfully", summary)
}

func (h *CatalogHandler) validateStruct(c fiber.Ctx, req any) error {
	if err := h.validator.Struct(req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return nil
}

func (h *CatalogHandler) paramUint(c fiber.Ctx, name string) (uint, error) {
	raw, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(raw), nil
}

func (h *CatalogHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *CatalogHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
