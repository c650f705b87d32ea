package dto

// ClipDTO represents an advertising clip attached to a plan
type ClipDTO struct {
	Name     string `json:"name" validate:"required,max=100"`
	Duration int    `json:"duration" validate:"required,gt=0"`
}

// CreatePlanRequest represents the request to create a radio plan
type CreatePlanRequest struct {
	CampaignID      uint      `json:"campaign_id" validate:"required"`
	CampaignName    string    `json:"campaign_name,omitempty"`
	ProjectID       *uint     `json:"project_id,omitempty"`
	ProjectName     *string   `json:"project_name,omitempty"`
	ClientBrandID   *uint     `json:"client_brand_id,omitempty"`
	ClientBrandName *string   `json:"client_brand_name,omitempty"`
	StartDate       string    `json:"start_date" validate:"required"`
	EndDate         string    `json:"end_date" validate:"required"`
	TargetAudience  string    `json:"target_audience,omitempty"`
	OurDiscount     float64   `json:"our_discount" validate:"gte=0,lte=100"`
	ClientDiscount  float64   `json:"client_discount" validate:"gte=0,lte=100"`
	StationIDs      []uint    `json:"station_ids" validate:"required,min=1"`
	Clips           []ClipDTO `json:"clips,omitempty"`
}

// UpdateDiscountsRequest represents the request to change a plan's discounts.
// All spots are recomputed against the new values.
type UpdateDiscountsRequest struct {
	PlanID         uint     `json:"-"`
	OurDiscount    *float64 `json:"our_discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	ClientDiscount *float64 `json:"client_discount,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// UpdateCapturedIndexRequest represents the request to override the captured
// seasonal index on a plan's snapshot rows for one station and month.
type UpdateCapturedIndexRequest struct {
	PlanID     uint    `json:"-"`
	StationID  uint    `json:"station_id" validate:"required"`
	Month      int     `json:"month" validate:"required,min=1,max=12"`
	IndexValue float64 `json:"index_value" validate:"required,gt=0"`
}

// SlotDateTotal represents aggregated values for one date within a slot group
type SlotDateTotal struct {
	Date       string  `json:"date"`
	SpotCount  int     `json:"spot_count"`
	GRP        float64 `json:"grp"`
	TRP        float64 `json:"trp"`
	FinalPrice float64 `json:"final_price"`
}

// SlotGroupTotal represents aggregated values for one station slot group
type SlotGroupTotal struct {
	StationID   uint            `json:"station_id"`
	StationName string          `json:"station_name"`
	TimeSlot    string          `json:"time_slot"`
	IsWeekend   bool            `json:"is_weekend"`
	SpotCount   int             `json:"spot_count"`
	GRP         float64         `json:"grp"`
	TRP         float64         `json:"trp"`
	FinalPrice  float64         `json:"final_price"`
	ByDate      []SlotDateTotal `json:"by_date"`
}

// PlanTotals represents grand totals across a whole plan
type PlanTotals struct {
	SpotCount  int     `json:"spot_count"`
	GRP        float64 `json:"grp"`
	TRP        float64 `json:"trp"`
	FinalPrice float64 `json:"final_price"`
}

// PlanAggregateResponse represents the aggregated view of a plan's spots
type PlanAggregateResponse struct {
	PlanID     uint             `json:"plan_id"`
	Dates      []string         `json:"dates"`
	SlotGroups []SlotGroupTotal `json:"slot_groups"`
	Totals     PlanTotals       `json:"totals"`
}
