package dto

// CreateGroupRequest represents the request to create a station group
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateStationRequest represents the request to create a station
type CreateStationRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	GroupID uint   `json:"group_id" validate:"required"`
}

// UpsertSlotPriceRequest represents the request to set a flat time-slot price
type UpsertSlotPriceRequest struct {
	StationID uint    `json:"-"`
	TimeSlot  string  `json:"time_slot" validate:"required"`
	IsWeekend bool    `json:"is_weekend"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// UpsertZonePriceRequest represents the request to set a zone/duration price
type UpsertZonePriceRequest struct {
	StationID uint    `json:"-"`
	Zone      string  `json:"zone" validate:"required,oneof=A B C D"`
	Duration  string  `json:"duration" validate:"required"`
	IsWeekend bool    `json:"is_weekend"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// UpsertRatingRequest represents the request to set an audience rating
type UpsertRatingRequest struct {
	StationID      uint    `json:"-"`
	TimeSlot       string  `json:"time_slot" validate:"required"`
	TargetAudience string  `json:"target_audience,omitempty"`
	IsWeekend      bool    `json:"is_weekend"`
	GRP            float64 `json:"grp" validate:"gte=0"`
	TRP            float64 `json:"trp" validate:"gte=0"`
}

// SetSeasonalIndexRequest represents the request to store a seasonal index
type SetSeasonalIndexRequest struct {
	Name       string  `json:"name,omitempty"`
	Month      int     `json:"month" validate:"required,min=1,max=12"`
	GroupID    *uint   `json:"group_id,omitempty"`
	IndexValue float64 `json:"index_value" validate:"required,gt=0"`
}

// PriceProbeResponse represents a resolved price for a station slot
type PriceProbeResponse struct {
	Price    float64 `json:"price"`
	Source   string  `json:"source"`
	Zone     string  `json:"zone"`
	Duration string  `json:"duration,omitempty"`
}

// SeasonalProbeResponse represents a resolved seasonal index
type SeasonalProbeResponse struct {
	StationID  uint    `json:"station_id"`
	Month      int     `json:"month"`
	IndexValue float64 `json:"index_value"`
}
