package repository

import (
	"context"
	"errors"

	"github.com/bpnlt/radioplan/models"
	"gorm.io/gorm"
)

// TimeSlotPriceRepositoryImpl implements the TimeSlotPriceRepository interface
type TimeSlotPriceRepositoryImpl struct {
	*BaseRepository[models.TimeSlotPrice, models.TimeSlotPriceFilter]
}

// NewTimeSlotPriceRepository creates a new time-slot price repository
func NewTimeSlotPriceRepository(db *gorm.DB) TimeSlotPriceRepository {
	return &TimeSlotPriceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.TimeSlotPrice, models.TimeSlotPriceFilter](db),
	}
}

// ActiveBySlot returns the active flat price for a station slot, nil when absent.
func (r *TimeSlotPriceRepositoryImpl) ActiveBySlot(ctx context.Context, stationID uint, timeSlot string, isWeekend bool) (*models.TimeSlotPrice, error) {
	db := r.getDB(ctx)

	var price models.TimeSlotPrice
	err := db.Where("station_id = ? AND time_slot = ? AND is_weekend = ? AND is_active = ?",
		stationID, timeSlot, isWeekend, true).First(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &price, nil
}

// Upsert finds the row for the natural key and updates its price, or inserts
// a new active row. Reactivates a soft-deleted row when it exists.
func (r *TimeSlotPriceRepositoryImpl) Upsert(ctx context.Context, stationID uint, timeSlot string, isWeekend bool, price float64) (*models.TimeSlotPrice, error) {
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

	var existing models.TimeSlotPrice
	err = db.Where("station_id = ? AND time_slot = ? AND is_weekend = ?",
		stationID, timeSlot, isWeekend).First(&existing).Error
	switch {
	case err == nil:
		existing.Price = price
		existing.IsActive = true
		if err = db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		created := models.TimeSlotPrice{
			StationID: stationID,
			TimeSlot:  timeSlot,
			IsWeekend: isWeekend,
			Price:     price,
			IsActive:  true,
		}
		if err = db.Create(&created).Error; err != nil {
			return nil, err
		}
		return &created, nil
	default:
		return nil, err
	}
}

// ByFilter retrieves time-slot prices based on filter criteria
func (r *TimeSlotPriceRepositoryImpl) ByFilter(ctx context.Context, filter models.TimeSlotPriceFilter, orderBy string, limit, offset int) ([]*models.TimeSlotPrice, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.TimeSlotPrice{}), filter)

	if orderBy == "" {
		orderBy = "time_slot"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.TimeSlotPrice
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of time-slot prices matching the filter
func (r *TimeSlotPriceRepositoryImpl) Count(ctx context.Context, filter models.TimeSlotPriceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.TimeSlotPrice{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *TimeSlotPriceRepositoryImpl) applyFilter(db *gorm.DB, filter models.TimeSlotPriceFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.StationID != nil {
		db = db.Where("station_id = ?", *filter.StationID)
	}
	if filter.TimeSlot != nil {
		db = db.Where("time_slot = ?", *filter.TimeSlot)
	}
	if filter.IsWeekend != nil {
		db = db.Where("is_weekend = ?", *filter.IsWeekend)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
