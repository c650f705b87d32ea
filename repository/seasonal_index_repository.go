package repository

import (
	"context"
	"errors"

	"github.com/bpnlt/radioplan/models"
	"gorm.io/gorm"
)

// SeasonalIndexRepositoryImpl implements the SeasonalIndexRepository interface
type SeasonalIndexRepositoryImpl struct {
	*BaseRepository[models.SeasonalIndex, models.SeasonalIndexFilter]
}

// NewSeasonalIndexRepository creates a new seasonal index repository
func NewSeasonalIndexRepository(db *gorm.DB) SeasonalIndexRepository {
	return &SeasonalIndexRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SeasonalIndex, models.SeasonalIndexFilter](db),
	}
}

// ActiveByMonth returns the active index for a month. A nil groupID selects
// the global row (NULL group_id); otherwise the group-specific row.
func (r *SeasonalIndexRepositoryImpl) ActiveByMonth(ctx context.Context, month int, groupID *uint) (*models.SeasonalIndex, error) {
	db := r.getDB(ctx)

	query := db.Where("month = ? AND is_active = ?", month, true)
	if groupID == nil {
		query = query.Where("group_id IS NULL")
	} else {
		query = query.Where("group_id = ?", *groupID)
	}

	var index models.SeasonalIndex
	err := query.First(&index).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &index, nil
}

// ListActive returns all active seasonal indices ordered by month
func (r *SeasonalIndexRepositoryImpl) ListActive(ctx context.Context) ([]*models.SeasonalIndex, error) {
	db := r.getDB(ctx)

	var rows []*models.SeasonalIndex
	err := db.Where("is_active = ?", true).Order("month, group_id").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateValue updates the index value of a single row
func (r *SeasonalIndexRepositoryImpl) UpdateValue(ctx context.Context, id uint, indexValue float64) error {
	db := r.getDB(ctx)
	return db.Model(&models.SeasonalIndex{}).
		Where("id = ?", id).
		Update("index_value", indexValue).Error
}

// ByFilter retrieves seasonal indices based on filter criteria
func (r *SeasonalIndexRepositoryImpl) ByFilter(ctx context.Context, filter models.SeasonalIndexFilter, orderBy string, limit, offset int) ([]*models.SeasonalIndex, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SeasonalIndex{}), filter)

	if orderBy == "" {
		orderBy = "month"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.SeasonalIndex
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of seasonal indices matching the filter
func (r *SeasonalIndexRepositoryImpl) Count(ctx context.Context, filter models.SeasonalIndexFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SeasonalIndex{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SeasonalIndexRepositoryImpl) applyFilter(db *gorm.DB, filter models.SeasonalIndexFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Month != nil {
		db = db.Where("month = ?", *filter.Month)
	}
	if filter.GroupID != nil {
		db = db.Where("group_id = ?", *filter.GroupID)
	}
	if filter.Global != nil && *filter.Global {
		db = db.Where("group_id IS NULL")
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
