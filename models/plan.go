package models

import (
	"time"

	"github.com/bpnlt/radioplan/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan represents a radio media-buy plan for a campaign. Campaign, project
// and client brand identifiers are opaque references into the external CRM.
type Plan struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"not null;uniqueIndex:uk_radio_plans_uuid" json:"uuid"`

	CampaignID      uint    `gorm:"not null;index:idx_radio_plans_campaign_id" json:"campaign_id"`
	CampaignName    string  `gorm:"size:200" json:"campaign_name"`
	ProjectID       *uint   `json:"project_id,omitempty"`
	ProjectName     *string `gorm:"size:200" json:"project_name,omitempty"`
	ClientBrandID   *uint   `json:"client_brand_id,omitempty"`
	ClientBrandName *string `gorm:"size:200" json:"client_brand_name,omitempty"`

	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`

	TargetAudience string  `gorm:"size:50;not null" json:"target_audience"`
	OurDiscount    float64 `gorm:"not null;default:0" json:"our_discount"`
	ClientDiscount float64 `gorm:"not null;default:0" json:"client_discount"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Clips            []Clip                `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"clips,omitempty"`
	Spots            []Spot                `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"spots,omitempty"`
	SelectedStations []Station             `gorm:"many2many:plan_stations" json:"selected_stations,omitempty"`
	CapturedData     []CapturedStationData `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"captured_data,omitempty"`
}

// TableName returns the table name for the model
func (Plan) TableName() string {
	return "radio_plans"
}

// BeforeCreate is called before creating a new record
func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (p *Plan) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	p.UpdatedAt = &now
	return nil
}

// DefaultClipDuration returns the first clip's duration in seconds, or 30
// when the plan has no clips.
func (p *Plan) DefaultClipDuration() int {
	if len(p.Clips) > 0 && p.Clips[0].Duration > 0 {
		return p.Clips[0].Duration
	}
	return utils.DefaultClipDurationSeconds
}

// MonthsSpanned returns the distinct calendar month numbers touched by the
// plan's inclusive date range in chronological order. A range crossing a year
// boundary collapses duplicate month numbers since seasonal indices key on
// month-of-year, not year.
func (p *Plan) MonthsSpanned() []int {
	seen := make(map[int]bool, 12)
	months := make([]int, 0, 12)

	cur := time.Date(p.StartDate.Year(), p.StartDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := p.EndDate
	for !cur.After(end) {
		m := int(cur.Month())
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}

// PlanFilter represents filter criteria for plans
type PlanFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	CampaignID    *uint      `json:"campaign_id,omitempty"`
	StartsAfter   *time.Time `json:"starts_after,omitempty"`
	EndsBefore    *time.Time `json:"ends_before,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

// Clip represents an advertising clip attached to a plan. The first clip's
// duration is used as the default spot duration for pricing.
type Clip struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlanID    uint      `gorm:"not null;index:idx_radio_clips_plan_id" json:"plan_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Duration  int       `gorm:"not null" json:"duration"` // seconds
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Plan *Plan `gorm:"foreignKey:PlanID;references:ID" json:"plan,omitempty"`
}

// TableName returns the table name for the model
func (Clip) TableName() string {
	return "radio_clips"
}

// BeforeCreate is called before creating a new record
func (c *Clip) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}
