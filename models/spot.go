package models

import (
	"time"

	"github.com/bpnlt/radioplan/utils"
	"gorm.io/gorm"
)

// Spot represents scheduled airings in one calendar cell of a plan. It is
// identified by (plan, station, time slot, date, weekend-row flag); the
// rating and price columns are derived and recomputed whenever the count,
// the plan discounts, or the captured snapshot changes. A count of zero is
// never stored: the row is deleted instead.
type Spot struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PlanID       uint      `gorm:"not null;uniqueIndex:uk_radio_spots_key" json:"plan_id"`
	StationID    uint      `gorm:"not null;uniqueIndex:uk_radio_spots_key" json:"station_id"`
	TimeSlot     string    `gorm:"size:20;not null;uniqueIndex:uk_radio_spots_key" json:"time_slot"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:uk_radio_spots_key" json:"date"`
	IsWeekendRow bool      `gorm:"not null;default:false;uniqueIndex:uk_radio_spots_key" json:"is_weekend_row"`

	Weekday      string `gorm:"size:20" json:"weekday"`
	SpotCount    int    `gorm:"not null;default:1" json:"spot_count"`
	ClipDuration int    `json:"clip_duration"` // seconds

	// Derived ratings
	GRP      float64 `gorm:"column:grp;not null;default:0" json:"grp"`
	TRP      float64 `gorm:"column:trp;not null;default:0" json:"trp"`
	Affinity float64 `gorm:"not null;default:0" json:"affinity"`

	// Derived pricing
	BasePrice      float64 `gorm:"not null;default:0" json:"base_price"`
	SeasonalIndex  float64 `gorm:"not null;default:1.0" json:"seasonal_index"`
	PriceWithIndex float64 `gorm:"not null;default:0" json:"price_with_index"`
	FinalPrice     float64 `gorm:"not null;default:0" json:"final_price"`
	PricePerTRP    float64 `gorm:"column:price_per_trp;not null;default:0" json:"price_per_trp"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Plan    *Plan    `gorm:"foreignKey:PlanID;references:ID" json:"plan,omitempty"`
	Station *Station `gorm:"foreignKey:StationID;references:ID" json:"station,omitempty"`
}

// TableName returns the table name for the model
func (Spot) TableName() string {
	return "radio_spots"
}

// BeforeCreate is called before creating a new record
func (s *Spot) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	if s.Weekday == "" {
		s.Weekday = s.Date.Weekday().String()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (s *Spot) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	s.UpdatedAt = &now
	return nil
}

// IsWeekendDate reports whether the spot's date falls on Saturday or Sunday.
func (s *Spot) IsWeekendDate() bool {
	return utils.IsWeekend(s.Date)
}

// SpotFilter represents filter criteria for spots
type SpotFilter struct {
	ID           *uint      `json:"id,omitempty"`
	PlanID       *uint      `json:"plan_id,omitempty"`
	StationID    *uint      `json:"station_id,omitempty"`
	TimeSlot     *string    `json:"time_slot,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	IsWeekendRow *bool      `json:"is_weekend_row,omitempty"`
}
