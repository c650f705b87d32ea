package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bpnlt/radioplan/utils"
	"gorm.io/gorm"
)

// Zone represents a coarse time-of-day pricing bucket
type Zone string

const (
	ZoneA Zone = "A"
	ZoneB Zone = "B"
	ZoneC Zone = "C"
	ZoneD Zone = "D"
)

// String returns the string representation of the zone
func (z Zone) String() string {
	return string(z)
}

// Valid checks if the zone is valid
func (z Zone) Valid() bool {
	switch z {
	case ZoneA, ZoneB, ZoneC, ZoneD:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for Zone
func (z *Zone) Scan(value any) error {
	if value == nil {
		*z = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*z = Zone(v)
	case []byte:
		*z = Zone(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Zone", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for Zone
func (z Zone) Value() (driver.Value, error) {
	if !z.Valid() {
		return nil, fmt.Errorf("invalid Zone: %s", z)
	}
	return string(z), nil
}

// ZonePrice represents a zone/duration rate card entry for a station.
// Duration is an open set of strings like "15s", "30s", "60s".
type ZonePrice struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	StationID uint       `gorm:"not null;uniqueIndex:uk_zone_prices_key" json:"station_id"`
	Zone      Zone       `gorm:"size:10;not null;uniqueIndex:uk_zone_prices_key" json:"zone"`
	Duration  string     `gorm:"size:10;not null;uniqueIndex:uk_zone_prices_key" json:"duration"`
	IsWeekend bool       `gorm:"not null;default:false;uniqueIndex:uk_zone_prices_key" json:"is_weekend"`
	Price     float64    `gorm:"not null;default:0" json:"price"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Station *Station `gorm:"foreignKey:StationID;references:ID" json:"station,omitempty"`
}

// TableName returns the table name for the model
func (ZonePrice) TableName() string {
	return "station_zone_prices"
}

// BeforeCreate is called before creating a new record
func (p *ZonePrice) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (p *ZonePrice) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	p.UpdatedAt = &now
	return nil
}

// DurationSeconds parses the duration string ("30s" or bare "30") into seconds.
func (p *ZonePrice) DurationSeconds() (int, error) {
	raw := strings.TrimSuffix(strings.TrimSpace(p.Duration), "s")
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid zone price duration %q: %w", p.Duration, err)
	}
	return secs, nil
}

// ZonePriceFilter represents filter criteria for zone prices
type ZonePriceFilter struct {
	ID        *uint   `json:"id,omitempty"`
	StationID *uint   `json:"station_id,omitempty"`
	Zone      *Zone   `json:"zone,omitempty"`
	Duration  *string `json:"duration,omitempty"`
	IsWeekend *bool   `json:"is_weekend,omitempty"`
}
