// Package models defines the database entities for the radio planning service.
package models

import (
	"time"

	"github.com/bpnlt/radioplan/utils"
	"gorm.io/gorm"
)

// Group represents a radio station group (a sales house owning several stations)
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:uk_groups_name" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Stations        []Station       `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"stations,omitempty"`
	SeasonalIndices []SeasonalIndex `gorm:"foreignKey:GroupID" json:"seasonal_indices,omitempty"`
}

// TableName returns the table name for the model
func (Group) TableName() string {
	return "radio_groups"
}

// BeforeCreate is called before creating a new record
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = utils.UTCNow()
	}
	return nil
}

// GroupFilter represents filter criteria for groups
type GroupFilter struct {
	ID   *uint   `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}
