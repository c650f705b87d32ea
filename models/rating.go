package models

import (
	"time"

	"github.com/bpnlt/radioplan/utils"
	"gorm.io/gorm"
)

// Rating represents measured audience ratings for a station time slot.
// GRP is the gross rating, TRP the rating within the target audience.
type Rating struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	StationID      uint       `gorm:"not null;uniqueIndex:uk_station_ratings_key" json:"station_id"`
	TimeSlot       string     `gorm:"size:20;not null;uniqueIndex:uk_station_ratings_key" json:"time_slot"`
	TargetAudience string     `gorm:"size:50;not null;uniqueIndex:uk_station_ratings_key" json:"target_audience"`
	IsWeekend      bool       `gorm:"not null;default:false;uniqueIndex:uk_station_ratings_key" json:"is_weekend"`
	GRP            float64    `gorm:"column:grp;not null" json:"grp"`
	TRP            float64    `gorm:"column:trp;not null" json:"trp"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`

	// Relations
	Station *Station `gorm:"foreignKey:StationID;references:ID" json:"station,omitempty"`
}

// TableName returns the table name for the model
func (Rating) TableName() string {
	return "station_ratings"
}

// BeforeCreate is called before creating a new record
func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (r *Rating) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	r.UpdatedAt = &now
	return nil
}

// Affinity returns TRP/GRP, the targeting efficiency of the slot.
// It is always derived from the stored pair, never stored itself.
func (r *Rating) Affinity() float64 {
	if r.GRP > 0 {
		return r.TRP / r.GRP
	}
	return 0
}

// RatingFilter represents filter criteria for ratings
type RatingFilter struct {
	ID             *uint   `json:"id,omitempty"`
	StationID      *uint   `json:"station_id,omitempty"`
	TimeSlot       *string `json:"time_slot,omitempty"`
	TargetAudience *string `json:"target_audience,omitempty"`
	IsWeekend      *bool   `json:"is_weekend,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}
