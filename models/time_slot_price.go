package models

import (
	"time"

	"github.com/bpnlt/radioplan/utils"
	"gorm.io/gorm"
)

// TimeSlotPrice represents a flat per-slot rate card entry for a station.
// At most one active row may exist per (station, time_slot, is_weekend).
type TimeSlotPrice struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	StationID uint       `gorm:"not null;uniqueIndex:uk_station_prices_slot" json:"station_id"`
	TimeSlot  string     `gorm:"size:20;not null;uniqueIndex:uk_station_prices_slot" json:"time_slot"`
	IsWeekend bool       `gorm:"not null;default:false;uniqueIndex:uk_station_prices_slot" json:"is_weekend"`
	Price     float64    `gorm:"not null" json:"price"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Station *Station `gorm:"foreignKey:StationID;references:ID" json:"station,omitempty"`
}

// TableName returns the table name for the model
func (TimeSlotPrice) TableName() string {
	return "station_prices"
}

// BeforeCreate is called before creating a new record
func (p *TimeSlotPrice) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (p *TimeSlotPrice) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	p.UpdatedAt = &now
	return nil
}

// TimeSlotPriceFilter represents filter criteria for time-slot prices
type TimeSlotPriceFilter struct {
	ID        *uint   `json:"id,omitempty"`
	StationID *uint   `json:"station_id,omitempty"`
	TimeSlot  *string `json:"time_slot,omitempty"`
	IsWeekend *bool   `json:"is_weekend,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}
