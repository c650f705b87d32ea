package repository

import (
	"context"
	"errors"

	"github.com/bpnlt/radioplan/models"
	"gorm.io/gorm"
)

// CapturedStationDataRepositoryImpl implements the CapturedStationDataRepository interface
type CapturedStationDataRepositoryImpl struct {
	*BaseRepository[models.CapturedStationData, models.CapturedStationDataFilter]
}

// NewCapturedStationDataRepository creates a new captured station data repository
func NewCapturedStationDataRepository(db *gorm.DB) CapturedStationDataRepository {
	return &CapturedStationDataRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CapturedStationData, models.CapturedStationDataFilter](db),
	}
}

// ByKey retrieves a snapshot row by its natural key
func (r *CapturedStationDataRepositoryImpl) ByKey(ctx context.Context, planID, stationID uint, timeSlot string, isWeekend bool, month int) (*models.CapturedStationData, error) {
	db := r.getDB(ctx)

	var row models.CapturedStationData
	err := db.Where("plan_id = ? AND station_id = ? AND time_slot = ? AND is_weekend = ? AND month = ?",
		planID, stationID, timeSlot, isWeekend, month).
		Last(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

// ListByPlan retrieves all snapshot rows belonging to a plan
func (r *CapturedStationDataRepositoryImpl) ListByPlan(ctx context.Context, planID uint) ([]*models.CapturedStationData, error) {
	db := r.getDB(ctx)

	var rows []*models.CapturedStationData
	err := db.Where("plan_id = ?", planID).
		Order("station_id ASC, time_slot ASC, month ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByPlanSlot retrieves the snapshot rows for one station slot across all
// captured months.
func (r *CapturedStationDataRepositoryImpl) ListByPlanSlot(ctx context.Context, planID, stationID uint, timeSlot string, isWeekend bool) ([]*models.CapturedStationData, error) {
	db := r.getDB(ctx)

	var rows []*models.CapturedStationData
	err := db.Where("plan_id = ? AND station_id = ? AND time_slot = ? AND is_weekend = ?",
		planID, stationID, timeSlot, isWeekend).
		Order("month ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateSeasonalIndex overrides the captured seasonal index on the given rows
func (r *CapturedStationDataRepositoryImpl) UpdateSeasonalIndex(ctx context.Context, ids []uint, indexValue float64) error {
	if len(ids) == 0 {
		return nil
	}

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

	err = db.Model(&models.CapturedStationData{}).
		Where("id IN ?", ids).
		Update("seasonal_index", indexValue).Error
	return err
}

// ByFilter retrieves snapshot rows based on filter criteria
func (r *CapturedStationDataRepositoryImpl) ByFilter(ctx context.Context, filter models.CapturedStationDataFilter, orderBy string, limit, offset int) ([]*models.CapturedStationData, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CapturedStationData{}), filter)

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

	var rows []*models.CapturedStationData
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of snapshot rows matching the filter
func (r *CapturedStationDataRepositoryImpl) Count(ctx context.Context, filter models.CapturedStationDataFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CapturedStationData{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CapturedStationDataRepositoryImpl) applyFilter(db *gorm.DB, filter models.CapturedStationDataFilter) *gorm.DB {
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
	if filter.IsWeekend != nil {
		db = db.Where("is_weekend = ?", *filter.IsWeekend)
	}
	if filter.Month != nil {
		db = db.Where("month = ?", *filter.Month)
	}
	return db
}
