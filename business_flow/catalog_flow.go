package businessflow

import (
	"context"
	"fmt"

	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/repository"
	"github.com/bpnlt/radioplan/utils"
)

// CatalogFlow manages the live rate catalog: groups, stations, prices and
// ratings. Plans never read these directly after creation; they read their
// captured snapshot instead.
type CatalogFlow interface {
	ListGroups(ctx context.Context) ([]*models.Group, error)
	CreateGroup(ctx context.Context, name string) (*models.Group, error)
	DeleteGroup(ctx context.Context, id uint) error

	ListStations(ctx context.Context, groupID *uint) ([]*models.Station, error)
	GetStation(ctx context.Context, id uint) (*models.Station, error)
	CreateStation(ctx context.Context, name string, groupID uint) (*models.Station, error)
	DeleteStation(ctx context.Context, id uint) error

	ListSlotPrices(ctx context.Context, stationID uint) ([]*models.TimeSlotPrice, error)
	UpsertSlotPrice(ctx context.Context, stationID uint, timeSlot string, isWeekend bool, price float64) (*models.TimeSlotPrice, error)

	ListZonePrices(ctx context.Context, stationID uint) ([]*models.ZonePrice, error)
	UpsertZonePrice(ctx context.Context, stationID uint, zone models.Zone, duration string, isWeekend bool, price float64) (*models.ZonePrice, error)

	ListRatings(ctx context.Context, stationID uint) ([]*models.Rating, error)
	UpsertRating(ctx context.Context, stationID uint, timeSlot, targetAudience string, isWeekend bool, grp, trp float64) (*models.Rating, error)

	SeedDefaultData(ctx context.Context) error
}

// CatalogFlowImpl implements the rate catalog business flow
type CatalogFlowImpl struct {
	groupRepo     repository.GroupRepository
	stationRepo   repository.StationRepository
	slotPriceRepo repository.TimeSlotPriceRepository
	zonePriceRepo repository.ZonePriceRepository
	ratingRepo    repository.RatingRepository
	seasonalRepo  repository.SeasonalIndexRepository
}

// NewCatalogFlow creates a new catalog flow
func NewCatalogFlow(
	groupRepo repository.GroupRepository,
	stationRepo repository.StationRepository,
	slotPriceRepo repository.TimeSlotPriceRepository,
	zonePriceRepo repository.ZonePriceRepository,
	ratingRepo repository.RatingRepository,
	seasonalRepo repository.SeasonalIndexRepository,
) CatalogFlow {
	return &CatalogFlowImpl{
		groupRepo:     groupRepo,
		stationRepo:   stationRepo,
		slotPriceRepo: slotPriceRepo,
		zonePriceRepo: zonePriceRepo,
		ratingRepo:    ratingRepo,
		seasonalRepo:  seasonalRepo,
	}
}

// ListGroups lists all groups with their stations preloaded
func (f *CatalogFlowImpl) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := f.groupRepo.ListWithStations(ctx)
	if err != nil {
		return nil, NewBusinessError("GROUP_LIST_FAILED", "failed to list groups", err)
	}
	return groups, nil
}

// CreateGroup creates a new station group
func (f *CatalogFlowImpl) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	if name == "" {
		return nil, NewBusinessError("GROUP_NAME_REQUIRED", "group name is required", ErrGroupNameRequired)
	}

	existing, err := f.groupRepo.ByName(ctx, name)
	if err != nil {
		return nil, NewBusinessError("GROUP_LOOKUP_FAILED", "failed to look up group", err)
	}
	if existing != nil {
		return nil, NewBusinessErrorf("GROUP_ALREADY_EXISTS", "group %q already exists", ErrGroupAlreadyExists, name)
	}

	group := &models.Group{Name: name}
	if err := f.groupRepo.Save(ctx, group); err != nil {
		return nil, NewBusinessError("GROUP_SAVE_FAILED", "failed to save group", err)
	}
	return group, nil
}

// DeleteGroup removes a group and its stations
func (f *CatalogFlowImpl) DeleteGroup(ctx context.Context, id uint) error {
	group, err := f.groupRepo.ByID(ctx, id)
	if err != nil {
		return NewBusinessError("GROUP_LOOKUP_FAILED", "failed to look up group", err)
	}
	if group == nil {
		return NewBusinessErrorf("GROUP_NOT_FOUND", "group %d not found", ErrGroupNotFound, id)
	}

	if err := f.groupRepo.DeleteByID(ctx, id); err != nil {
		return NewBusinessError("GROUP_DELETE_FAILED", "failed to delete group", err)
	}
	return nil
}

// ListStations lists stations, optionally narrowed to one group
func (f *CatalogFlowImpl) ListStations(ctx context.Context, groupID *uint) ([]*models.Station, error) {
	var (
		stations []*models.Station
		err      error
	)
	if groupID != nil {
		stations, err = f.stationRepo.ListByGroup(ctx, *groupID)
	} else {
		stations, err = f.stationRepo.ByFilter(ctx, models.StationFilter{}, "name ASC", 0, 0)
	}
	if err != nil {
		return nil, NewBusinessError("STATION_LIST_FAILED", "failed to list stations", err)
	}
	return stations, nil
}

// GetStation retrieves a single station
func (f *CatalogFlowImpl) GetStation(ctx context.Context, id uint) (*models.Station, error) {
	station, err := f.stationRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("STATION_LOOKUP_FAILED", "failed to look up station", err)
	}
	if station == nil {
		return nil, NewBusinessErrorf("STATION_NOT_FOUND", "station %d not found", ErrStationNotFound, id)
	}
	return station, nil
}

// CreateStation creates a new station under a group
func (f *CatalogFlowImpl) CreateStation(ctx context.Context, name string, groupID uint) (*models.Station, error) {
	if name == "" {
		return nil, NewBusinessError("STATION_NAME_REQUIRED", "station name is required", ErrStationNameRequired)
	}

	group, err := f.groupRepo.ByID(ctx, groupID)
	if err != nil {
		return nil, NewBusinessError("GROUP_LOOKUP_FAILED", "failed to look up group", err)
	}
	if group == nil {
		return nil, NewBusinessErrorf("GROUP_NOT_FOUND", "group %d not found", ErrGroupNotFound, groupID)
	}

	existing, err := f.stationRepo.ByName(ctx, name)
	if err != nil {
		return nil, NewBusinessError("STATION_LOOKUP_FAILED", "failed to look up station", err)
	}
	if existing != nil {
		return nil, NewBusinessErrorf("STATION_ALREADY_EXISTS", "station %q already exists", ErrStationAlreadyExists, name)
	}

	station := &models.Station{Name: name, GroupID: groupID}
	if err := f.stationRepo.Save(ctx, station); err != nil {
		return nil, NewBusinessError("STATION_SAVE_FAILED", "failed to save station", err)
	}
	return station, nil
}

// DeleteStation removes a station and its prices and ratings
func (f *CatalogFlowImpl) DeleteStation(ctx context.Context, id uint) error {
	station, err := f.stationRepo.ByID(ctx, id)
	if err != nil {
		return NewBusinessError("STATION_LOOKUP_FAILED", "failed to look up station", err)
	}
	if station == nil {
		return NewBusinessErrorf("STATION_NOT_FOUND", "station %d not found", ErrStationNotFound, id)
	}

	if err := f.stationRepo.DeleteByID(ctx, id); err != nil {
		return NewBusinessError("STATION_DELETE_FAILED", "failed to delete station", err)
	}
	return nil
}

// ListSlotPrices lists a station's flat time-slot prices
func (f *CatalogFlowImpl) ListSlotPrices(ctx context.Context, stationID uint) ([]*models.TimeSlotPrice, error) {
	rows, err := f.slotPriceRepo.ByFilter(ctx, models.TimeSlotPriceFilter{StationID: &stationID}, "time_slot ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("SLOT_PRICE_LIST_FAILED", "failed to list slot prices", err)
	}
	return rows, nil
}

// UpsertSlotPrice creates or updates a flat time-slot price
func (f *CatalogFlowImpl) UpsertSlotPrice(ctx context.Context, stationID uint, timeSlot string, isWeekend bool, price float64) (*models.TimeSlotPrice, error) {
	if price < 0 {
		return nil, NewBusinessError("INVALID_PRICE", "price must not be negative", ErrInvalidPrice)
	}
	if _, err := slotStartHour(timeSlot); err != nil {
		return nil, err
	}
	if _, err := f.GetStation(ctx, stationID); err != nil {
		return nil, err
	}

	row, err := f.slotPriceRepo.Upsert(ctx, stationID, timeSlot, isWeekend, price)
	if err != nil {
		return nil, NewBusinessError("SLOT_PRICE_SAVE_FAILED", "failed to save slot price", err)
	}
	return row, nil
}

// ListZonePrices lists a station's zone/duration prices
func (f *CatalogFlowImpl) ListZonePrices(ctx context.Context, stationID uint) ([]*models.ZonePrice, error) {
	rows, err := f.zonePriceRepo.ByFilter(ctx, models.ZonePriceFilter{StationID: &stationID}, "zone ASC, duration ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("ZONE_PRICE_LIST_FAILED", "failed to list zone prices", err)
	}
	return rows, nil
}

// UpsertZonePrice creates or updates a zone/duration price
func (f *CatalogFlowImpl) UpsertZonePrice(ctx context.Context, stationID uint, zone models.Zone, duration string, isWeekend bool, price float64) (*models.ZonePrice, error) {
	if !zone.Valid() {
		return nil, NewBusinessErrorf("INVALID_ZONE", "zone %q is invalid", ErrInvalidZone, zone)
	}
	probe := models.ZonePrice{Duration: duration}
	if _, err := probe.DurationSeconds(); err != nil {
		return nil, NewBusinessErrorf("INVALID_DURATION", "duration %q is invalid", ErrInvalidDuration, duration)
	}
	if price < 0 {
		return nil, NewBusinessError("INVALID_PRICE", "price must not be negative", ErrInvalidPrice)
	}
	if _, err := f.GetStation(ctx, stationID); err != nil {
		return nil, err
	}

	row, err := f.zonePriceRepo.Upsert(ctx, stationID, zone, duration, isWeekend, price)
	if err != nil {
		return nil, NewBusinessError("ZONE_PRICE_SAVE_FAILED", "failed to save zone price", err)
	}
	return row, nil
}

// ListRatings lists a station's audience ratings
func (f *CatalogFlowImpl) ListRatings(ctx context.Context, stationID uint) ([]*models.Rating, error) {
	rows, err := f.ratingRepo.ByFilter(ctx, models.RatingFilter{StationID: &stationID}, "time_slot ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("RATING_LIST_FAILED", "failed to list ratings", err)
	}
	return rows, nil
}

// UpsertRating creates or updates an audience rating
func (f *CatalogFlowImpl) UpsertRating(ctx context.Context, stationID uint, timeSlot, targetAudience string, isWeekend bool, grp, trp float64) (*models.Rating, error) {
	if grp < 0 || trp < 0 {
		return nil, NewBusinessError("INVALID_RATING", "rating values must not be negative", ErrInvalidRating)
	}
	if _, err := slotStartHour(timeSlot); err != nil {
		return nil, err
	}
	if targetAudience == "" {
		targetAudience = utils.DefaultTargetAudience
	}
	if _, err := f.GetStation(ctx, stationID); err != nil {
		return nil, err
	}

	row, err := f.ratingRepo.Upsert(ctx, stationID, timeSlot, targetAudience, isWeekend, grp, trp)
	if err != nil {
		return nil, NewBusinessError("RATING_SAVE_FAILED", "failed to save rating", err)
	}
	return row, nil
}

// SeedDefaultData initializes the default groups and the neutral seasonal
// index table on an empty database. Idempotent.
func (f *CatalogFlowImpl) SeedDefaultData(ctx context.Context) error {
	count, err := f.groupRepo.Count(ctx, models.GroupFilter{})
	if err != nil {
		return NewBusinessError("SEED_FAILED", "failed to count groups", err)
	}
	if count > 0 {
		return nil
	}

	for _, name := range []string{"Tango", "Reklamos ekspertai", "PHR"} {
		if err := f.groupRepo.Save(ctx, &models.Group{Name: name}); err != nil {
			return NewBusinessError("SEED_FAILED", "failed to seed groups", err)
		}
	}

	indices := make([]*models.SeasonalIndex, 0, utils.MonthsPerYear)
	for month := 1; month <= utils.MonthsPerYear; month++ {
		indices = append(indices, &models.SeasonalIndex{
			Name:       fmt.Sprintf("Month %d", month),
			Month:      month,
			IndexValue: 1.0,
			IsActive:   true,
		})
	}
	if err := f.seasonalRepo.SaveBatch(ctx, indices); err != nil {
		return NewBusinessError("SEED_FAILED", "failed to seed seasonal indices", err)
	}

	return nil
}
