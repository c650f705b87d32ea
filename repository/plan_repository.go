package repository

import (
	"context"
	"errors"

	"github.com/bpnlt/radioplan/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlanRepositoryImpl implements the PlanRepository interface
type PlanRepositoryImpl struct {
	*BaseRepository[models.Plan, models.PlanFilter]
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &PlanRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Plan, models.PlanFilter](db),
	}
}

// ByIDFull retrieves a plan with clips, selected stations and spots preloaded
func (r *PlanRepositoryImpl) ByIDFull(ctx context.Context, id uint) (*models.Plan, error) {
	db := r.getDB(ctx)

	var plan models.Plan
	err := db.Preload("Clips").
		Preload("SelectedStations").
		Preload("Spots").
		Preload("Spots.Station").
		Last(&plan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &plan, nil
}

// ByUUID retrieves a plan by UUID
func (r *PlanRepositoryImpl) ByUUID(ctx context.Context, raw string) (*models.Plan, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}

	filter := models.PlanFilter{UUID: &parsed}
	plans, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(plans) == 0 {
		return nil, nil
	}

	return plans[0], nil
}

// AttachStations associates the selected stations with a plan
func (r *PlanRepositoryImpl) AttachStations(ctx context.Context, plan *models.Plan, stations []*models.Station) error {
	if len(stations) == 0 {
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

	err = db.Model(plan).Association("SelectedStations").Append(stations)
	return err
}

// UpdateDiscounts updates the plan's discount percentages; nil leaves a value unchanged.
func (r *PlanRepositoryImpl) UpdateDiscounts(ctx context.Context, id uint, ourDiscount, clientDiscount *float64) error {
	db := r.getDB(ctx)

	updates := map[string]any{}
	if ourDiscount != nil {
		updates["our_discount"] = *ourDiscount
	}
	if clientDiscount != nil {
		updates["client_discount"] = *clientDiscount
	}
	if len(updates) == 0 {
		return nil
	}

	return db.Model(&models.Plan{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteByID removes a plan; clips, spots and captured data cascade with it.
func (r *PlanRepositoryImpl) DeleteByID(ctx context.Context, id uint) error {
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

	err = db.Select("Clips", "Spots", "CapturedData").Delete(&models.Plan{ID: id}).Error
	return err
}

// ByFilter retrieves plans based on filter criteria
func (r *PlanRepositoryImpl) ByFilter(ctx context.Context, filter models.PlanFilter, orderBy string, limit, offset int) ([]*models.Plan, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Plan{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Plan
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of plans matching the filter
func (r *PlanRepositoryImpl) Count(ctx context.Context, filter models.PlanFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Plan{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PlanRepositoryImpl) applyFilter(db *gorm.DB, filter models.PlanFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.StartsAfter != nil {
		db = db.Where("start_date >= ?", *filter.StartsAfter)
	}
	if filter.EndsBefore != nil {
		db = db.Where("end_date <= ?", *filter.EndsBefore)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
