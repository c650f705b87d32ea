package dto

// UpsertSpotRequest represents the request to place or resize a spot. A count
// of zero removes the spot.
type UpsertSpotRequest struct {
	PlanID    uint   `json:"-"`
	StationID uint   `json:"station_id" validate:"required"`
	TimeSlot  string `json:"time_slot" validate:"required"`
	Date      string `json:"date" validate:"required"`
	SpotCount int    `json:"spot_count" validate:"gte=0"`
	// IsWeekendRow marks spots placed on the weekend pricing row of the grid;
	// it defaults to whether the date falls on a weekend.
	IsWeekendRow *bool `json:"is_weekend_row,omitempty"`
}

// SpotResponse represents a spot with its derived metrics
type SpotResponse struct {
	ID             uint    `json:"id"`
	StationID      uint    `json:"station_id"`
	StationName    string  `json:"station_name,omitempty"`
	TimeSlot       string  `json:"time_slot"`
	Date           string  `json:"date"`
	Weekday        string  `json:"weekday"`
	IsWeekendRow   bool    `json:"is_weekend_row"`
	SpotCount      int     `json:"spot_count"`
	ClipDuration   int     `json:"clip_duration"`
	GRP            float64 `json:"grp"`
	TRP            float64 `json:"trp"`
	Affinity       float64 `json:"affinity"`
	BasePrice      float64 `json:"base_price"`
	SeasonalIndex  float64 `json:"seasonal_index"`
	PriceWithIndex float64 `json:"price_with_index"`
	FinalPrice     float64 `json:"final_price"`
	PricePerTRP    float64 `json:"price_per_trp"`
}
