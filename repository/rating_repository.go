package repository

import (
	"context"
	"errors"

	"github.com/bpnlt/radioplan/models"
	"gorm.io/gorm"
)

// RatingRepositoryImpl implements the RatingRepository interface
type RatingRepositoryImpl struct {
	*BaseRepository[models.Rating, models.RatingFilter]
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &RatingRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Rating, models.RatingFilter](db),
	}
}

// ActiveBySlot returns the active rating for a station slot and target audience, nil when absent.
func (r *RatingRepositoryImpl) ActiveBySlot(ctx context.Context, stationID uint, timeSlot, targetAudience string, isWeekend bool) (*models.Rating, error) {
	db := r.getDB(ctx)

	var rating models.Rating
	err := db.Where("station_id = ? AND time_slot = ? AND target_audience = ? AND is_weekend = ? AND is_active = ?",
		stationID, timeSlot, targetAudience, isWeekend, true).First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &rating, nil
}

// Upsert finds the row for the natural key and updates its ratings, or
// inserts a new active row. Reactivates a soft-deleted row when it exists.
func (r *RatingRepositoryImpl) Upsert(ctx context.Context, stationID uint, timeSlot, targetAudience string, isWeekend bool, grp, trp float64) (*models.Rating, error) {
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

	var existing models.Rating
	err = db.Where("station_id = ? AND time_slot = ? AND target_audience = ? AND is_weekend = ?",
		stationID, timeSlot, targetAudience, isWeekend).First(&existing).Error
	switch {
	case err == nil:
		existing.GRP = grp
		existing.TRP = trp
		existing.IsActive = true
		if err = db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		created := models.Rating{
			StationID:      stationID,
			TimeSlot:       timeSlot,
			TargetAudience: targetAudience,
			IsWeekend:      isWeekend,
			GRP:            grp,
			TRP:            trp,
			IsActive:       true,
		}
		if err = db.Create(&created).Error; err != nil {
			return nil, err
		}
		return &created, nil
	default:
		return nil, err
	}
}

// ByFilter retrieves ratings based on filter criteria
func (r *RatingRepositoryImpl) ByFilter(ctx context.Context, filter models.RatingFilter, orderBy string, limit, offset int) ([]*models.Rating, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Rating{}), filter)

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

	var rows []*models.Rating
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of ratings matching the filter
func (r *RatingRepositoryImpl) Count(ctx context.Context, filter models.RatingFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Rating{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *RatingRepositoryImpl) applyFilter(db *gorm.DB, filter models.RatingFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.StationID != nil {
		db = db.Where("station_id = ?", *filter.StationID)
	}
	if filter.TimeSlot != nil {
		db = db.Where("time_slot = ?", *filter.TimeSlot)
	}
	if filter.TargetAudience != nil {
		db = db.Where("target_audience = ?", *filter.TargetAudience)
	}
	if filter.IsWeekend != nil {
		db = db.Where("is_weekend = ?", *filter.IsWeekend)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
