package models

import (
	"time"

	"github.com/bpnlt/radioplan/utils"
	"gorm.io/gorm"
)

// Station represents a radio station belonging to exactly one group
type Station struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	GroupID   uint       `gorm:"not null;index:idx_radio_stations_group_id" json:"group_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Group      *Group          `gorm:"foreignKey:GroupID;references:ID" json:"group,omitempty"`
	Prices     []TimeSlotPrice `gorm:"foreignKey:StationID;constraint:OnDelete:CASCADE" json:"prices,omitempty"`
	ZonePrices []ZonePrice     `gorm:"foreignKey:StationID;constraint:OnDelete:CASCADE" json:"zone_prices,omitempty"`
	Ratings    []Rating        `gorm:"foreignKey:StationID;constraint:OnDelete:CASCADE" json:"ratings,omitempty"`
}

// TableName returns the table name for the model
func (Station) TableName() string {
	return "radio_stations"
}

// BeforeCreate is called before creating a new record
func (s *Station) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (s *Station) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	s.UpdatedAt = &now
	return nil
}

// StationFilter represents filter criteria for stations
type StationFilter struct {
	ID      *uint   `json:"id,omitempty"`
	Name    *string `json:"name,omitempty"`
	GroupID *uint   `json:"group_id,omitempty"`
}
