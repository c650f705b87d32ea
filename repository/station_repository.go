package repository

import (
	"context"
	"errors"

	"github.com/bpnlt/radioplan/models"
	"gorm.io/gorm"
)

// StationRepositoryImpl implements the StationRepository interface
type StationRepositoryImpl struct {
	*BaseRepository[models.Station, models.StationFilter]
}

// NewStationRepository creates a new station repository
func NewStationRepository(db *gorm.DB) StationRepository {
	return &StationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Station, models.StationFilter](db),
	}
}

// ByID retrieves a station with its group preloaded
func (r *StationRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Station, error) {
	db := r.getDB(ctx)

	var station models.Station
	err := db.Preload("Group").Last(&station, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &station, nil
}

// ByName retrieves a station by name
func (r *StationRepositoryImpl) ByName(ctx context.Context, name string) (*models.Station, error) {
	db := r.getDB(ctx)

	var station models.Station
	err := db.Where("name = ?", name).First(&station).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &station, nil
}

// ListByGroup returns all stations of a group ordered by name
func (r *StationRepositoryImpl) ListByGroup(ctx context.Context, groupID uint) ([]*models.Station, error) {
	filter := models.StationFilter{GroupID: &groupID}
	return r.ByFilter(ctx, filter, "name", 0, 0)
}

// DeleteByID removes a station; its prices and ratings cascade with it.
func (r *StationRepositoryImpl) DeleteByID(ctx context.Context, id uint) error {
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

	err = db.Select("Prices", "ZonePrices", "Ratings").Delete(&models.Station{ID: id}).Error
	return err
}

// ByFilter retrieves stations based on filter criteria
func (r *StationRepositoryImpl) ByFilter(ctx context.Context, filter models.StationFilter, orderBy string, limit, offset int) ([]*models.Station, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Station{}), filter)

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

	var rows []*models.Station
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of stations matching the filter
func (r *StationRepositoryImpl) Count(ctx context.Context, filter models.StationFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Station{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *StationRepositoryImpl) applyFilter(db *gorm.DB, filter models.StationFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.GroupID != nil {
		db = db.Where("group_id = ?", *filter.GroupID)
	}
	return db
}
