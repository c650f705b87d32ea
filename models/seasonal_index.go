package models

import (
	"time"

	"github.com/bpnlt/radioplan/utils"
	"gorm.io/gorm"
)

// SeasonalIndex represents a monthly price multiplier. A nil GroupID means
// the row is the global default for that month; at most one active global row
// and one active per-group row may exist per month.
type SeasonalIndex struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:50;not null" json:"name"`
	Month      int       `gorm:"not null;uniqueIndex:uk_seasonal_indices_key;check:month >= 1 AND month <= 12" json:"month"`
	GroupID    *uint     `gorm:"uniqueIndex:uk_seasonal_indices_key" json:"group_id,omitempty"`
	IndexValue float64   `gorm:"not null;default:1.0" json:"index_value"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Group *Group `gorm:"foreignKey:GroupID;references:ID" json:"group,omitempty"`
}

// TableName returns the table name for the model
func (SeasonalIndex) TableName() string {
	return "seasonal_indices"
}

// BeforeCreate is called before creating a new record
func (s *SeasonalIndex) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	return nil
}

// SeasonalIndexFilter represents filter criteria for seasonal indices
type SeasonalIndexFilter struct {
	ID       *uint `json:"id,omitempty"`
	Month    *int  `json:"month,omitempty"`
	GroupID  *uint `json:"group_id,omitempty"`
	Global   *bool `json:"global,omitempty"` // true filters rows with NULL group_id
	IsActive *bool `json:"is_active,omitempty"`
}
