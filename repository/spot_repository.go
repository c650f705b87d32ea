package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/utils"
	"gorm.io/gorm"
)

// SpotRepositoryImpl implements the SpotRepository interface
type SpotRepositoryImpl struct {
	*BaseRepository[models.Spot, models.SpotFilter]
}

// NewSpotRepository creates a new spot repository
func NewSpotRepository(db *gorm.DB) SpotRepository {
	return &SpotRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Spot, models.SpotFilter](db),
	}
}

// ByNaturalKey retrieves a spot by its scheduling identity
func (r *SpotRepositoryImpl) ByNaturalKey(ctx context.Context, planID, stationID uint, timeSlot string, date time.Time, isWeekendRow bool) (*models.Spot, error) {
	db := r.getDB(ctx)

	var spot models.Spot
	err := db.Where("plan_id = ? AND station_id = ? AND time_slot = ? AND date = ? AND is_weekend_row = ?",
		planID, stationID, timeSlot, utils.DateOnly(date), isWeekendRow).
		Last(&spot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &spot, nil
}

// ListByPlan retrieves all spots belonging to a plan, ordered for display
func (r *SpotRepositoryImpl) ListByPlan(ctx context.Context, planID uint) ([]*models.Spot, error) {
	db := r.getDB(ctx)

	var rows []*models.Spot
	err := db.Preload("Station").
		Where("plan_id = ?", planID).
		Order("station_id ASC, time_slot ASC, date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists changes to an existing spot
func (r *SpotRepositoryImpl) Update(ctx context.Context, spot *models.Spot) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
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

	err = db.Save(spot).Error
	return err
}

// DeleteByID removes a spot
func (r *SpotRepositoryImpl) DeleteByID(ctx context.Context, id uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
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

	err = db.Delete(&models.Spot{}, id).Error
	return err
}

// ByFilter retrieves spots based on filter criteria
func (r *SpotRepositoryImpl) ByFilter(ctx context.Context, filter models.SpotFilter, orderBy string, limit, offset int) ([]*models.Spot, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Spot{}), filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Spot
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of spots matching the filter
func (r *SpotRepositoryImpl) Count(ctx context.Context, filter models.SpotFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Spot{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SpotRepositoryImpl) applyFilter(db *gorm.DB, filter models.SpotFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.PlanID != nil {
		db = db.Where("plan_id = ?", *filter.PlanID)
	}
	if filter.StationID != nil {
		db = db.Where("station_id = ?", *filter.StationID)
	}
	if filter.TimeSlot != nil {
		db = db.Where("time_slot = ?", *filter.TimeSlot)
	}
	if filter.Date != nil {
		db = db.Where("date = ?", utils.DateOnly(*filter.Date))
	}
	if filter.IsWeekendRow != nil {
		db = db.Where("is_weekend_row = ?", *filter.IsWeekendRow)
	}
	return db
}
