package businessflow

import (
	"context"

	"github.com/bpnlt/radioplan/app/dto"
	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/repository"
	"github.com/bpnlt/radioplan/utils"
	"gorm.io/gorm"
)

// PlanFlow manages radio plans and their captured snapshots
type PlanFlow interface {
	CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*models.Plan, error)
	GetPlan(ctx context.Context, id uint) (*models.Plan, error)
	ListPlans(ctx context.Context, limit, offset int) ([]*models.Plan, error)
	DeletePlan(ctx context.Context, id uint) error
	UpdateDiscounts(ctx context.Context, req *dto.UpdateDiscountsRequest) (*models.Plan, error)
	UpdateCapturedIndex(ctx context.Context, req *dto.UpdateCapturedIndexRequest) error
	ListCapturedData(ctx context.Context, planID uint) ([]*models.CapturedStationData, error)
}

// PlanFlowImpl implements the plan business flow
type PlanFlowImpl struct {
	planRepo     repository.PlanRepository
	stationRepo  repository.StationRepository
	ratingRepo   repository.RatingRepository
	capturedRepo repository.CapturedStationDataRepository
	pricing      PricingFlow
	seasonal     SeasonalFlow
	spots        SpotFlow
	db           *gorm.DB
}

// NewPlanFlow creates a new plan flow
func NewPlanFlow(
	planRepo repository.PlanRepository,
	stationRepo repository.StationRepository,
	ratingRepo repository.RatingRepository,
	capturedRepo repository.CapturedStationDataRepository,
	pricing PricingFlow,
	seasonal SeasonalFlow,
	spots SpotFlow,
	db *gorm.DB,
) PlanFlow {
	return &PlanFlowImpl{
		planRepo:     planRepo,
		stationRepo:  stationRepo,
		ratingRepo:   ratingRepo,
		capturedRepo: capturedRepo,
		pricing:      pricing,
		seasonal:     seasonal,
		spots:        spots,
		db:           db,
	}
}

// CreatePlan persists a new plan together with its clips, station
// associations and the full captured snapshot in one transaction. A plan with
// a partial snapshot is not a valid state, so any failure rolls the whole
// creation back.
func (f *PlanFlowImpl) CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*models.Plan, error) {
	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, NewBusinessErrorf("INVALID_DATE", "start date %q is invalid", err, req.StartDate)
	}
	endDate, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return nil, NewBusinessErrorf("INVALID_DATE", "end date %q is invalid", err, req.EndDate)
	}
	if startDate.After(endDate) {
		return nil, NewBusinessError("INVALID_DATE_RANGE", "start date cannot be after end date", ErrStartDateAfterEndDate)
	}
	if len(req.StationIDs) == 0 {
		return nil, NewBusinessError("STATIONS_REQUIRED", "at least one station is required", ErrPlanStationsRequired)
	}
	if req.OurDiscount < 0 || req.OurDiscount > 100 || req.ClientDiscount < 0 || req.ClientDiscount > 100 {
		return nil, NewBusinessError("DISCOUNT_OUT_OF_RANGE", "discount must be between 0 and 100", ErrDiscountOutOfRange)
	}

	stations := make([]*models.Station, 0, len(req.StationIDs))
	for _, id := range req.StationIDs {
		station, err := f.stationRepo.ByID(ctx, id)
		if err != nil {
			return nil, NewBusinessError("STATION_LOOKUP_FAILED", "failed to look up station", err)
		}
		if station == nil {
			return nil, NewBusinessErrorf("STATION_NOT_FOUND", "station %d not found", ErrStationNotFound, id)
		}
		stations = append(stations, station)
	}

	targetAudience := req.TargetAudience
	if targetAudience == "" {
		targetAudience = utils.DefaultTargetAudience
	}

	plan := &models.Plan{
		CampaignID:      req.CampaignID,
		CampaignName:    req.CampaignName,
		ProjectID:       req.ProjectID,
		ProjectName:     req.ProjectName,
		ClientBrandID:   req.ClientBrandID,
		ClientBrandName: req.ClientBrandName,
		StartDate:       utils.DateOnly(startDate),
		EndDate:         utils.DateOnly(endDate),
		TargetAudience:  targetAudience,
		OurDiscount:     req.OurDiscount,
		ClientDiscount:  req.ClientDiscount,
	}
	for _, clip := range req.Clips {
		plan.Clips = append(plan.Clips, models.Clip{Name: clip.Name, Duration: clip.Duration})
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.planRepo.Save(txCtx, plan); err != nil {
			return NewBusinessError("PLAN_SAVE_FAILED", "failed to save plan", err)
		}
		if err := f.planRepo.AttachStations(txCtx, plan, stations); err != nil {
			return NewBusinessError("PLAN_SAVE_FAILED", "failed to attach stations", err)
		}
		plan.SelectedStations = make([]models.Station, 0, len(stations))
		for _, station := range stations {
			plan.SelectedStations = append(plan.SelectedStations, *station)
		}
		return f.captureStationData(txCtx, plan, stations)
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// captureStationData freezes the live catalog onto the plan: one row per
// selected station, spanned month, canonical slot and weekday/weekend
// variant, even when the rating is absent or the slot is unpriced. Any future
// spot placement then has a ready-made frozen lookup.
func (f *PlanFlowImpl) captureStationData(ctx context.Context, plan *models.Plan, stations []*models.Station) error {
	months := plan.MonthsSpanned()
	slots := utils.TimeSlots()
	duration := plan.DefaultClipDuration()

	// The seasonal index varies by (group, month) only; resolve each pair once.
	type groupMonth struct {
		groupID uint
		month   int
	}
	indexCache := make(map[groupMonth]float64)
	indexFor := func(groupID uint, month int) float64 {
		key := groupMonth{groupID, month}
		if value, ok := indexCache[key]; ok {
			return value
		}
		value := f.seasonal.ResolveIndex(ctx, &key.groupID, month)
		indexCache[key] = value
		return value
	}

	rows := make([]*models.CapturedStationData, 0, len(stations)*len(months)*len(slots)*2)
	for _, station := range stations {
		for _, slot := range slots {
			for _, isWeekend := range []bool{false, true} {
				var grp, trp, affinity float64
				rating, err := f.ratingRepo.ActiveBySlot(ctx, station.ID, slot, plan.TargetAudience, isWeekend)
				if err != nil {
					return NewBusinessError("RATING_LOOKUP_FAILED", "failed to look up rating", err)
				}
				if rating != nil {
					grp = rating.GRP
					trp = rating.TRP
					affinity = rating.Affinity()
				}

				// Snapshot pricing uses the zone/duration path only; the flat
				// fallback stays a live-resolution concern.
				resolution, err := f.pricing.ResolveZonePrice(ctx, station.ID, slot, duration, isWeekend)
				if err != nil {
					return err
				}

				for _, month := range months {
					rows = append(rows, &models.CapturedStationData{
						PlanID:        plan.ID,
						StationID:     station.ID,
						TimeSlot:      slot,
						IsWeekend:     isWeekend,
						Month:         month,
						GRP:           grp,
						TRP:           trp,
						Affinity:      affinity,
						BasePrice:     resolution.Price,
						SeasonalIndex: indexFor(station.GroupID, month),
					})
				}
			}
		}
	}

	if err := f.capturedRepo.SaveBatch(ctx, rows); err != nil {
		return NewBusinessError("SNAPSHOT_SAVE_FAILED", "failed to save captured station data", err)
	}
	return nil
}

// GetPlan retrieves a plan with clips, stations and spots preloaded
func (f *PlanFlowImpl) GetPlan(ctx context.Context, id uint) (*models.Plan, error) {
	plan, err := f.planRepo.ByIDFull(ctx, id)
	if err != nil {
		return nil, NewBusinessError("PLAN_LOOKUP_FAILED", "failed to look up plan", err)
	}
	if plan == nil {
		return nil, NewBusinessErrorf("PLAN_NOT_FOUND", "plan %d not found", ErrPlanNotFound, id)
	}
	return plan, nil
}

// ListPlans lists plans, most recent first
func (f *PlanFlowImpl) ListPlans(ctx context.Context, limit, offset int) ([]*models.Plan, error) {
	plans, err := f.planRepo.ByFilter(ctx, models.PlanFilter{}, "", limit, offset)
	if err != nil {
		return nil, NewBusinessError("PLAN_LIST_FAILED", "failed to list plans", err)
	}
	return plans, nil
}

// DeletePlan removes a plan and everything hanging off it
func (f *PlanFlowImpl) DeletePlan(ctx context.Context, id uint) error {
	plan, err := f.planRepo.ByID(ctx, id)
	if err != nil {
		return NewBusinessError("PLAN_LOOKUP_FAILED", "failed to look up plan", err)
	}
	if plan == nil {
		return NewBusinessErrorf("PLAN_NOT_FOUND", "plan %d not found", ErrPlanNotFound, id)
	}

	if err := f.planRepo.DeleteByID(ctx, id); err != nil {
		return NewBusinessError("PLAN_DELETE_FAILED", "failed to delete plan", err)
	}
	return nil
}

// UpdateDiscounts changes the plan's discount percentages and recomputes
// every spot against the new values in one transaction.
func (f *PlanFlowImpl) UpdateDiscounts(ctx context.Context, req *dto.UpdateDiscountsRequest) (*models.Plan, error) {
	if req.OurDiscount == nil && req.ClientDiscount == nil {
		return nil, NewBusinessError("UPDATE_REQUIRED", "at least one field must be provided for update", ErrPlanUpdateRequired)
	}
	for _, d := range []*float64{req.OurDiscount, req.ClientDiscount} {
		if d != nil && (*d < 0 || *d > 100) {
			return nil, NewBusinessError("DISCOUNT_OUT_OF_RANGE", "discount must be between 0 and 100", ErrDiscountOutOfRange)
		}
	}

	plan, err := f.planRepo.ByIDFull(ctx, req.PlanID)
	if err != nil {
		return nil, NewBusinessError("PLAN_LOOKUP_FAILED", "failed to look up plan", err)
	}
	if plan == nil {
		return nil, NewBusinessErrorf("PLAN_NOT_FOUND", "plan %d not found", ErrPlanNotFound, req.PlanID)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.planRepo.UpdateDiscounts(txCtx, req.PlanID, req.OurDiscount, req.ClientDiscount); err != nil {
			return NewBusinessError("PLAN_SAVE_FAILED", "failed to update discounts", err)
		}
		if req.OurDiscount != nil {
			plan.OurDiscount = *req.OurDiscount
		}
		if req.ClientDiscount != nil {
			plan.ClientDiscount = *req.ClientDiscount
		}
		return f.spots.RecomputePlanSpots(txCtx, plan)
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// UpdateCapturedIndex overrides the captured seasonal index on the plan's
// snapshot rows for one station and month, then recomputes the plan's spots.
// Live seasonal tables are untouched: this is a per-plan override.
func (f *PlanFlowImpl) UpdateCapturedIndex(ctx context.Context, req *dto.UpdateCapturedIndexRequest) error {
	if req.Month < 1 || req.Month > utils.MonthsPerYear {
		return NewBusinessErrorf("INVALID_MONTH", "month %d is out of range", ErrInvalidMonth, req.Month)
	}
	if req.IndexValue <= 0 {
		return NewBusinessError("INVALID_INDEX_VALUE", "index value must be positive", ErrInvalidIndexValue)
	}

	plan, err := f.planRepo.ByIDFull(ctx, req.PlanID)
	if err != nil {
		return NewBusinessError("PLAN_LOOKUP_FAILED", "failed to look up plan", err)
	}
	if plan == nil {
		return NewBusinessErrorf("PLAN_NOT_FOUND", "plan %d not found", ErrPlanNotFound, req.PlanID)
	}
	if !planHasStation(plan, req.StationID) {
		return NewBusinessErrorf("STATION_NOT_IN_PLAN", "station %d does not belong to plan %d", ErrStationNotInPlan, req.StationID, req.PlanID)
	}

	rows, err := f.capturedRepo.ByFilter(ctx, models.CapturedStationDataFilter{
		PlanID:    &req.PlanID,
		StationID: &req.StationID,
		Month:     &req.Month,
	}, "", 0, 0)
	if err != nil {
		return NewBusinessError("CAPTURED_DATA_LOOKUP_FAILED", "failed to look up captured data", err)
	}
	if len(rows) == 0 {
		return NewBusinessErrorf("CAPTURED_DATA_NOT_FOUND", "no captured data for station %d month %d", ErrCapturedDataNotFound, req.StationID, req.Month)
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	return repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.capturedRepo.UpdateSeasonalIndex(txCtx, ids, req.IndexValue); err != nil {
			return NewBusinessError("SNAPSHOT_SAVE_FAILED", "failed to update captured index", err)
		}
		return f.spots.RecomputePlanSpots(txCtx, plan)
	})
}

// ListCapturedData lists a plan's snapshot rows
func (f *PlanFlowImpl) ListCapturedData(ctx context.Context, planID uint) ([]*models.CapturedStationData, error) {
	plan, err := f.planRepo.ByID(ctx, planID)
	if err != nil {
		return nil, NewBusinessError("PLAN_LOOKUP_FAILED", "failed to look up plan", err)
	}
	if plan == nil {
		return nil, NewBusinessErrorf("PLAN_NOT_FOUND", "plan %d not found", ErrPlanNotFound, planID)
	}

	rows, err := f.capturedRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, NewBusinessError("CAPTURED_DATA_LIST_FAILED", "failed to list captured data", err)
	}
	return rows, nil
}
