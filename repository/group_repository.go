package repository

import (
	"context"
	"errors"

	"github.com/bpnlt/radioplan/models"
	"gorm.io/gorm"
)

// GroupRepositoryImpl implements the GroupRepository interface
type GroupRepositoryImpl struct {
	*BaseRepository[models.Group, models.GroupFilter]
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GroupRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Group, models.GroupFilter](db),
	}
}

// ByName retrieves a group by its unique name
func (r *GroupRepositoryImpl) ByName(ctx context.Context, name string) (*models.Group, error) {
	db := r.getDB(ctx)

	var group models.Group
	err := db.Where("name = ?", name).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &group, nil
}

// ListWithStations returns all groups with their stations preloaded
func (r *GroupRepositoryImpl) ListWithStations(ctx context.Context) ([]*models.Group, error) {
	db := r.getDB(ctx)

	var groups []*models.Group
	err := db.Preload("Stations").Order("name").Find(&groups).Error
	if err != nil {
		return nil, err
	}

	return groups, nil
}

// DeleteByID removes a group; its stations cascade with it.
func (r *GroupRepositoryImpl) DeleteByID(ctx context.Context, id uint) error {
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

	err = db.Select("Stations").Delete(&models.Group{ID: id}).Error
	return err
}

// ByFilter retrieves groups based on filter criteria
func (r *GroupRepositoryImpl) ByFilter(ctx context.Context, filter models.GroupFilter, orderBy string, limit, offset int) ([]*models.Group, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Group{}), filter)

	if orderBy == "" {
		orderBy = "name"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Group
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of groups matching the filter
func (r *GroupRepositoryImpl) Count(ctx context.Context, filter models.GroupFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Group{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *GroupRepositoryImpl) applyFilter(db *gorm.DB, filter models.GroupFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	return db
}
