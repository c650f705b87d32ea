package businessflow

import (
	"context"

	"github.com/bpnlt/radioplan/app/dto"
	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/repository"
	"github.com/bpnlt/radioplan/utils"
	"gorm.io/gorm"
)

// SpotMetricsEngine computes the derived rating and price columns of a spot
// from the plan's captured snapshot, falling back to live catalog resolution
// for plans that predate the snapshot mechanism.
type SpotMetricsEngine struct {
	capturedRepo repository.CapturedStationDataRepository
	ratingRepo   repository.RatingRepository
	pricing      PricingFlow
	seasonal     SeasonalFlow
	stationRepo  repository.StationRepository
}

// NewSpotMetricsEngine creates a new spot metrics engine
func NewSpotMetricsEngine(
	capturedRepo repository.CapturedStationDataRepository,
	ratingRepo repository.RatingRepository,
	pricing PricingFlow,
	seasonal SeasonalFlow,
	stationRepo repository.StationRepository,
) *SpotMetricsEngine {
	return &SpotMetricsEngine{
		capturedRepo: capturedRepo,
		ratingRepo:   ratingRepo,
		pricing:      pricing,
		seasonal:     seasonal,
		stationRepo:  stationRepo,
	}
}

// Apply recomputes all derived columns on the spot in place. GRP and TRP
// scale with the spot count; affinity is a ratio and does not. Discounts
// compound sequentially, never additively.
func (e *SpotMetricsEngine) Apply(ctx context.Context, spot *models.Spot, plan *models.Plan) error {
	isWeekend := spot.IsWeekendDate()
	month := int(spot.Date.Month())

	captured, err := e.capturedRepo.ByKey(ctx, plan.ID, spot.StationID, spot.TimeSlot, isWeekend, month)
	if err != nil {
		return NewBusinessError("CAPTURED_DATA_LOOKUP_FAILED", "failed to look up captured data", err)
	}

	var grp, trp, affinity, basePrice, seasonalIndex float64
	if captured != nil {
		grp = captured.GRP
		trp = captured.TRP
		affinity = captured.Affinity
		basePrice = captured.BasePrice
		seasonalIndex = captured.SeasonalIndex
	} else {
		grp, trp, affinity, basePrice, seasonalIndex, err = e.resolveLive(ctx, spot, plan, isWeekend, month)
		if err != nil {
			return err
		}
	}

	spot.GRP = grp * float64(spot.SpotCount)
	spot.TRP = trp * float64(spot.SpotCount)
	spot.Affinity = affinity
	spot.BasePrice = basePrice
	spot.SeasonalIndex = seasonalIndex

	spot.PriceWithIndex = basePrice * seasonalIndex
	afterOur := spot.PriceWithIndex * (1 - plan.OurDiscount/100)
	spot.FinalPrice = afterOur * (1 - plan.ClientDiscount/100)

	if spot.TRP > 0 {
		spot.PricePerTRP = basePrice / spot.TRP / 100
	} else {
		spot.PricePerTRP = 0
	}

	return nil
}

// resolveLive recomputes the snapshot values from the live catalog. Used only
// when no captured row exists for the spot's key.
func (e *SpotMetricsEngine) resolveLive(ctx context.Context, spot *models.Spot, plan *models.Plan, isWeekend bool, month int) (grp, trp, affinity, basePrice, seasonalIndex float64, err error) {
	rating, err := e.ratingRepo.ActiveBySlot(ctx, spot.StationID, spot.TimeSlot, plan.TargetAudience, isWeekend)
	if err != nil {
		return 0, 0, 0, 0, 0, NewBusinessError("RATING_LOOKUP_FAILED", "failed to look up rating", err)
	}
	if rating != nil {
		grp = rating.GRP
		trp = rating.TRP
		affinity = rating.Affinity()
	}

	duration := spot.ClipDuration
	if duration <= 0 {
		duration = plan.DefaultClipDuration()
	}
	resolution, err := e.pricing.ResolvePrice(ctx, spot.StationID, spot.TimeSlot, duration, isWeekend)
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}
	basePrice = resolution.Price

	seasonalIndex = 1.0
	station, err := e.stationRepo.ByID(ctx, spot.StationID)
	if err != nil {
		return 0, 0, 0, 0, 0, NewBusinessError("STATION_LOOKUP_FAILED", "failed to look up station", err)
	}
	if station != nil {
		seasonalIndex = e.seasonal.ResolveIndex(ctx, &station.GroupID, month)
	}

	return grp, trp, affinity, basePrice, seasonalIndex, nil
}

// SpotFlow manages spot placement on plans
type SpotFlow interface {
	UpsertSpot(ctx context.Context, req *dto.UpsertSpotRequest) (*models.Spot, error)
	ListSpots(ctx context.Context, planID uint) ([]*models.Spot, error)
	RecomputePlanSpots(ctx context.Context, plan *models.Plan) error
}

// SpotFlowImpl implements the spot business flow
type SpotFlowImpl struct {
	planRepo repository.PlanRepository
	spotRepo repository.SpotRepository
	engine   *SpotMetricsEngine
	db       *gorm.DB
}

// NewSpotFlow creates a new spot flow
func NewSpotFlow(
	planRepo repository.PlanRepository,
	spotRepo repository.SpotRepository,
	engine *SpotMetricsEngine,
	db *gorm.DB,
) SpotFlow {
	return &SpotFlowImpl{
		planRepo: planRepo,
		spotRepo: spotRepo,
		engine:   engine,
		db:       db,
	}
}

// UpsertSpot places, resizes or removes a spot. A count of zero or less
// deletes the row; zero-count spots are never stored. The identifying key is
// immutable once set: only the count and its derived columns change on
// update. Returns nil when the spot was removed.
func (f *SpotFlowImpl) UpsertSpot(ctx context.Context, req *dto.UpsertSpotRequest) (*models.Spot, error) {
	if req.SpotCount < 0 {
		return nil, NewBusinessError("SPOT_COUNT_NEGATIVE", "spot count must not be negative", ErrSpotCountNegative)
	}

	plan, err := f.planRepo.ByIDFull(ctx, req.PlanID)
	if err != nil {
		return nil, NewBusinessError("PLAN_LOOKUP_FAILED", "failed to look up plan", err)
	}
	if plan == nil {
		return nil, NewBusinessErrorf("PLAN_NOT_FOUND", "plan %d not found", ErrPlanNotFound, req.PlanID)
	}

	if !planHasStation(plan, req.StationID) {
		return nil, NewBusinessErrorf("STATION_NOT_IN_PLAN", "station %d does not belong to plan %d", ErrStationNotInPlan, req.StationID, req.PlanID)
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, NewBusinessErrorf("INVALID_DATE", "date %q is invalid", err, req.Date)
	}
	if date.Before(utils.DateOnly(plan.StartDate)) || date.After(utils.DateOnly(plan.EndDate)) {
		return nil, NewBusinessErrorf("SPOT_DATE_OUT_OF_RANGE", "date %s is outside the plan period", ErrSpotDateOutOfRange, req.Date)
	}

	if _, err := slotStartHour(req.TimeSlot); err != nil {
		return nil, err
	}

	isWeekendRow := utils.IsWeekend(date)
	if req.IsWeekendRow != nil {
		isWeekendRow = *req.IsWeekendRow
	}

	var result *models.Spot
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		existing, err := f.spotRepo.ByNaturalKey(txCtx, plan.ID, req.StationID, req.TimeSlot, date, isWeekendRow)
		if err != nil {
			return NewBusinessError("SPOT_LOOKUP_FAILED", "failed to look up spot", err)
		}

		if req.SpotCount == 0 {
			if existing != nil {
				if err := f.spotRepo.DeleteByID(txCtx, existing.ID); err != nil {
					return NewBusinessError("SPOT_DELETE_FAILED", "failed to delete spot", err)
				}
			}
			return nil
		}

		spot := existing
		if spot == nil {
			spot = &models.Spot{
				PlanID:       plan.ID,
				StationID:    req.StationID,
				TimeSlot:     req.TimeSlot,
				Date:         date,
				IsWeekendRow: isWeekendRow,
				Weekday:      date.Weekday().String(),
				ClipDuration: plan.DefaultClipDuration(),
			}
		}
		spot.SpotCount = req.SpotCount

		if err := f.engine.Apply(txCtx, spot, plan); err != nil {
			return err
		}

		if existing != nil {
			err = f.spotRepo.Update(txCtx, spot)
		} else {
			err = f.spotRepo.Save(txCtx, spot)
		}
		if err != nil {
			return NewBusinessError("SPOT_SAVE_FAILED", "failed to save spot", err)
		}

		result = spot
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ListSpots lists a plan's spots with stations preloaded
func (f *SpotFlowImpl) ListSpots(ctx context.Context, planID uint) ([]*models.Spot, error) {
	plan, err := f.planRepo.ByID(ctx, planID)
	if err != nil {
		return nil, NewBusinessError("PLAN_LOOKUP_FAILED", "failed to look up plan", err)
	}
	if plan == nil {
		return nil, NewBusinessErrorf("PLAN_NOT_FOUND", "plan %d not found", ErrPlanNotFound, planID)
	}

	spots, err := f.spotRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, NewBusinessError("SPOT_LIST_FAILED", "failed to list spots", err)
	}
	return spots, nil
}

// RecomputePlanSpots reapplies the metrics engine to every spot of the plan.
// Called after discount or captured-index changes.
func (f *SpotFlowImpl) RecomputePlanSpots(ctx context.Context, plan *models.Plan) error {
	spots, err := f.spotRepo.ListByPlan(ctx, plan.ID)
	if err != nil {
		return NewBusinessError("SPOT_LIST_FAILED", "failed to list spots", err)
	}

	for _, spot := range spots {
		if err := f.engine.Apply(ctx, spot, plan); err != nil {
			return err
		}
		if err := f.spotRepo.Update(ctx, spot); err != nil {
			return NewBusinessError("SPOT_SAVE_FAILED", "failed to save spot", err)
		}
	}
	return nil
}

func planHasStation(plan *models.Plan, stationID uint) bool {
	for _, station := range plan.SelectedStations {
		if station.ID == stationID {
			return true
		}
	}
	return false
}
