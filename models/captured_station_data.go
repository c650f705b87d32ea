package models

import (
	"time"

	"github.com/bpnlt/radioplan/utils"
	"gorm.io/gorm"
)

// CapturedStationData is the point-in-time snapshot of ratings, price and
// seasonal index frozen onto a plan at creation. One row exists per
// (plan, station, time slot, weekend flag, month) so that later edits to the
// live rate catalog never change an existing plan's numbers. The month is
// part of the key because the seasonal index varies by month within one plan.
type CapturedStationData struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PlanID    uint   `gorm:"not null;uniqueIndex:uk_plan_station_data_key" json:"plan_id"`
	StationID uint   `gorm:"not null;uniqueIndex:uk_plan_station_data_key" json:"station_id"`
	TimeSlot  string `gorm:"size:20;not null;uniqueIndex:uk_plan_station_data_key" json:"time_slot"`
	IsWeekend bool   `gorm:"not null;default:false;uniqueIndex:uk_plan_station_data_key" json:"is_weekend"`
	Month     int    `gorm:"not null;uniqueIndex:uk_plan_station_data_key" json:"month"`

	GRP      float64 `gorm:"column:grp;not null;default:0" json:"grp"`
	TRP      float64 `gorm:"column:trp;not null;default:0" json:"trp"`
	Affinity float64 `gorm:"not null;default:0" json:"affinity"`

	BasePrice     float64 `gorm:"not null;default:0" json:"base_price"`
	SeasonalIndex float64 `gorm:"not null;default:1.0" json:"seasonal_index"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Plan    *Plan    `gorm:"foreignKey:PlanID;references:ID" json:"plan,omitempty"`
	Station *Station `gorm:"foreignKey:StationID;references:ID" json:"station,omitempty"`
}

// TableName returns the table name for the model
func (CapturedStationData) TableName() string {
	return "plan_station_data"
}

// BeforeCreate is called before creating a new record
func (c *CapturedStationData) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// CapturedStationDataFilter represents filter criteria for captured rows
type CapturedStationDataFilter struct {
	ID        *uint   `json:"id,omitempty"`
	PlanID    *uint   `json:"plan_id,omitempty"`
	StationID *uint   `json:"station_id,omitempty"`
	TimeSlot  *string `json:"time_slot,omitempty"`
	IsWeekend *bool   `json:"is_weekend,omitempty"`
	Month     *int    `json:"month,omitempty"`
}
