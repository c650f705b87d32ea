// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/bpnlt/radioplan/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// GroupRepository defines operations for radio groups
type GroupRepository interface {
	Repository[models.Group, models.GroupFilter]
	ByName(ctx context.Context, name string) (*models.Group, error)
	ListWithStations(ctx context.Context) ([]*models.Group, error)
	DeleteByID(ctx context.Context, id uint) error
}

// StationRepository defines operations for radio stations
type StationRepository interface {
	Repository[models.Station, models.StationFilter]
	ByName(ctx context.Context, name string) (*models.Station, error)
	ListByGroup(ctx context.Context, groupID uint) ([]*models.Station, error)
	DeleteByID(ctx context.Context, id uint) error
}

// TimeSlotPriceRepository defines operations for flat time-slot prices
type TimeSlotPriceRepository interface {
	Repository[models.TimeSlotPrice, models.TimeSlotPriceFilter]
	ActiveBySlot(ctx context.Context, stationID uint, timeSlot string, isWeekend bool) (*models.TimeSlotPrice, error)
	Upsert(ctx context.Context, stationID uint, timeSlot string, isWeekend bool, price float64) (*models.TimeSlotPrice, error)
}

// ZonePriceRepository defines operations for zone/duration prices
type ZonePriceRepository interface {
	Repository[models.ZonePrice, models.ZonePriceFilter]
	ListByZone(ctx context.Context, stationID uint, zone models.Zone, isWeekend bool) ([]*models.ZonePrice, error)
	Upsert(ctx context.Context, stationID uint, zone models.Zone, duration string, isWeekend bool, price float64) (*models.ZonePrice, error)
}

// RatingRepository defines operations for station ratings
type RatingRepository interface {
	Repository[models.Rating, models.RatingFilter]
	ActiveBySlot(ctx context.Context, stationID uint, timeSlot, targetAudience string, isWeekend bool) (*models.Rating, error)
	Upsert(ctx context.Context, stationID uint, timeSlot, targetAudience string, isWeekend bool, grp, trp float64) (*models.Rating, error)
}

// SeasonalIndexRepository defines operations for seasonal indices
type SeasonalIndexRepository interface {
	Repository[models.SeasonalIndex, models.SeasonalIndexFilter]
	ActiveByMonth(ctx context.Context, month int, groupID *uint) (*models.SeasonalIndex, error)
	ListActive(ctx context.Context) ([]*models.SeasonalIndex, error)
	UpdateValue(ctx context.Context, id uint, indexValue float64) error
}

// PlanRepository defines operations for radio plans
type PlanRepository interface {
	Repository[models.Plan, models.PlanFilter]
	ByIDFull(ctx context.Context, id uint) (*models.Plan, error)
	ByUUID(ctx context.Context, uuid string) (*models.Plan, error)
	AttachStations(ctx context.Context, plan *models.Plan, stations []*models.Station) error
	UpdateDiscounts(ctx context.Context, id uint, ourDiscount, clientDiscount *float64) error
	DeleteByID(ctx context.Context, id uint) error
}

// SpotRepository defines operations for scheduled spots
type SpotRepository interface {
	Repository[models.Spot, models.SpotFilter]
	ByNaturalKey(ctx context.Context, planID, stationID uint, timeSlot string, date time.Time, isWeekendRow bool) (*models.Spot, error)
	ListByPlan(ctx context.Context, planID uint) ([]*models.Spot, error)
	Update(ctx context.Context, spot *models.Spot) error
	DeleteByID(ctx context.Context, id uint) error
}

// CapturedStationDataRepository defines operations for plan snapshots
type CapturedStationDataRepository interface {
	Repository[models.CapturedStationData, models.CapturedStationDataFilter]
	ByKey(ctx context.Context, planID, stationID uint, timeSlot string, isWeekend bool, month int) (*models.CapturedStationData, error)
	ListByPlan(ctx context.Context, planID uint) ([]*models.CapturedStationData, error)
	ListByPlanSlot(ctx context.Context, planID, stationID uint, timeSlot string, isWeekend bool) ([]*models.CapturedStationData, error)
	UpdateSeasonalIndex(ctx context.Context, ids []uint, indexValue float64) error
}
