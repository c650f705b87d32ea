package businessflow

import (
	"context"
	"log"

	"github.com/bpnlt/radioplan/app/services"
	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/repository"
	"github.com/bpnlt/radioplan/utils"
)

// SeasonalFlow resolves and manages monthly seasonal indices
type SeasonalFlow interface {
	ResolveIndex(ctx context.Context, groupID *uint, month int) float64
	ListIndices(ctx context.Context) ([]*models.SeasonalIndex, error)
	SetIndex(ctx context.Context, name string, month int, groupID *uint, indexValue float64) (*models.SeasonalIndex, error)
	ProbeIndex(ctx context.Context, stationID uint, month int) (float64, error)
}

// SeasonalFlowImpl implements the seasonal index business flow
type SeasonalFlowImpl struct {
	seasonalRepo repository.SeasonalIndexRepository
	stationRepo  repository.StationRepository
	provider     services.SeasonalAdjustmentProvider
}

// NewSeasonalFlow creates a new seasonal flow
func NewSeasonalFlow(
	seasonalRepo repository.SeasonalIndexRepository,
	stationRepo repository.StationRepository,
	provider services.SeasonalAdjustmentProvider,
) SeasonalFlow {
	return &SeasonalFlowImpl{
		seasonalRepo: seasonalRepo,
		stationRepo:  stationRepo,
		provider:     provider,
	}
}

// ResolveIndex resolves the seasonal index for a group and month. A stored
// group-specific value beats the stored global value, which beats the live
// external table, which beats the constant default of 1.0. Lookup and fetch
// failures degrade silently to the next step.
func (f *SeasonalFlowImpl) ResolveIndex(ctx context.Context, groupID *uint, month int) float64 {
	if month < 1 || month > utils.MonthsPerYear {
		return 1.0
	}

	if groupID != nil {
		row, err := f.seasonalRepo.ActiveByMonth(ctx, month, groupID)
		if err == nil && row != nil {
			return row.IndexValue
		}
		if err != nil {
			log.Printf("seasonal index group lookup failed: %v", err)
		}
	}

	row, err := f.seasonalRepo.ActiveByMonth(ctx, month, nil)
	if err == nil && row != nil {
		return row.IndexValue
	}
	if err != nil {
		log.Printf("seasonal index global lookup failed: %v", err)
	}

	if groupID != nil && f.provider != nil {
		indices, err := f.provider.FetchMonthlyIndices(ctx, *groupID)
		if err == nil && len(indices) >= month {
			return indices[month-1]
		}
		if err != nil {
			log.Printf("seasonal adjustment fetch failed for group %d: %v", *groupID, err)
		}
	}

	return 1.0
}

// ListIndices lists all active seasonal indices
func (f *SeasonalFlowImpl) ListIndices(ctx context.Context) ([]*models.SeasonalIndex, error) {
	rows, err := f.seasonalRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("SEASONAL_INDEX_LIST_FAILED", "failed to list seasonal indices", err)
	}
	return rows, nil
}

// SetIndex creates or updates the stored index for (month, group)
func (f *SeasonalFlowImpl) SetIndex(ctx context.Context, name string, month int, groupID *uint, indexValue float64) (*models.SeasonalIndex, error) {
	if month < 1 || month > utils.MonthsPerYear {
		return nil, NewBusinessErrorf("INVALID_MONTH", "month %d is out of range", ErrInvalidMonth, month)
	}
	if indexValue <= 0 {
		return nil, NewBusinessError("INVALID_INDEX_VALUE", "index value must be positive", ErrInvalidIndexValue)
	}

	existing, err := f.seasonalRepo.ActiveByMonth(ctx, month, groupID)
	if err != nil {
		return nil, NewBusinessError("SEASONAL_INDEX_LOOKUP_FAILED", "failed to look up seasonal index", err)
	}

	if existing != nil {
		existing.IndexValue = indexValue
		if name != "" {
			existing.Name = name
		}
		if err := f.seasonalRepo.Save(ctx, existing); err != nil {
			return nil, NewBusinessError("SEASONAL_INDEX_SAVE_FAILED", "failed to save seasonal index", err)
		}
		return existing, nil
	}

	row := &models.SeasonalIndex{
		Name:       name,
		Month:      month,
		GroupID:    groupID,
		IndexValue: indexValue,
		IsActive:   true,
	}
	if err := f.seasonalRepo.Save(ctx, row); err != nil {
		return nil, NewBusinessError("SEASONAL_INDEX_SAVE_FAILED", "failed to save seasonal index", err)
	}
	return row, nil
}

// ProbeIndex resolves the index a station would get for a month, walking the
// full fallback chain through the station's group.
func (f *SeasonalFlowImpl) ProbeIndex(ctx context.Context, stationID uint, month int) (float64, error) {
	if month < 1 || month > utils.MonthsPerYear {
		return 0, NewBusinessErrorf("INVALID_MONTH", "month %d is out of range", ErrInvalidMonth, month)
	}

	station, err := f.stationRepo.ByID(ctx, stationID)
	if err != nil {
		return 0, NewBusinessError("STATION_LOOKUP_FAILED", "failed to look up station", err)
	}
	if station == nil {
		return 0, NewBusinessErrorf("STATION_NOT_FOUND", "station %d not found", ErrStationNotFound, stationID)
	}

	return f.ResolveIndex(ctx, &station.GroupID, month), nil
}
