package repository

import (
	"context"
	"errors"

	"github.com/bpnlt/radioplan/models"
	"gorm.io/gorm"
)

// ZonePriceRepositoryImpl implements the ZonePriceRepository interface
type ZonePriceRepositoryImpl struct {
	*BaseRepository[models.ZonePrice, models.ZonePriceFilter]
}

// NewZonePriceRepository creates a new zone price repository
func NewZonePriceRepository(db *gorm.DB) ZonePriceRepository {
	return &ZonePriceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ZonePrice, models.ZonePriceFilter](db),
	}
}

// ListByZone returns all zone prices for (station, zone, weekend flag).
func (r *ZonePriceRepositoryImpl) ListByZone(ctx context.Context, stationID uint, zone models.Zone, isWeekend bool) ([]*models.ZonePrice, error) {
	filter := models.ZonePriceFilter{
		StationID: &stationID,
		Zone:      &zone,
		IsWeekend: &isWeekend,
	}
	return r.ByFilter(ctx, filter, "duration", 0, 0)
}

// Upsert finds the row for the natural key and updates its price, or inserts a new row.
func (r *ZonePriceRepositoryImpl) Upsert(ctx context.Context, stationID uint, zone models.Zone, duration string, isWeekend bool, price float64) (*models.ZonePrice, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return nil, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	var existing models.ZonePrice
	err = db.Where("station_id = ? AND zone = ? AND duration = ? AND is_weekend = ?",
		stationID, zone, duration, isWeekend).First(&existing).Error
	switch {
	case err == nil:
		existing.Price = price
		if err = db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		created := models.ZonePrice{
			StationID: stationID,
			Zone:      zone,
			Duration:  duration,
			IsWeekend: isWeekend,
			Price:     price,
		}
		if err = db.Create(&created).Error; err != nil {
			return nil, err
		}
		return &created, nil
	default:
		return nil, err
	}
}

// ByFilter retrieves zone prices based on filter criteria
func (r *ZonePriceRepositoryImpl) ByFilter(ctx context.Context, filter models.ZonePriceFilter, orderBy string, limit, offset int) ([]*models.ZonePrice, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ZonePrice{}), filter)

	if orderBy == "" {
		orderBy = "zone, duration"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.ZonePrice
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of zone prices matching the filter
func (r *ZonePriceRepositoryImpl) Count(ctx context.Context, filter models.ZonePriceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ZonePrice{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ZonePriceRepositoryImpl) applyFilter(db *gorm.DB, filter models.ZonePriceFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.StationID != nil {
		db = db.Where("station_id = ?", *filter.StationID)
	}
	if filter.Zone != nil {
		db = db.Where("zone = ?", *filter.Zone)
	}
	if filter.Duration != nil {
		db = db.Where("duration = ?", *filter.Duration)
	}
	if filter.IsWeekend != nil {
		db = db.Where("is_weekend = ?", *filter.IsWeekend)
	}
	return db
}
