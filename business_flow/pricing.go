package businessflow

import (
	"context"
	"strconv"
	"strings"

	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/repository"
)

// PriceSource tags where a resolved price came from. Absence of pricing data
// is a normal outcome, never an error.
type PriceSource string

const (
	PriceSourceZone     PriceSource = "zone_price"
	PriceSourceFallback PriceSource = "station_price_fallback"
	PriceSourceNotFound PriceSource = "not_found"
)

// PriceResolution is the outcome of a price lookup
type PriceResolution struct {
	Price    float64     `json:"price"`
	Source   PriceSource `json:"source"`
	Zone     models.Zone `json:"zone"`
	Duration string      `json:"duration,omitempty"`
}

// ResolveZone maps a time slot and weekend flag to a pricing zone. Weekends
// are single-rate all day, so the hour is irrelevant there.
func ResolveZone(timeSlot string, isWeekend bool) (models.Zone, error) {
	hour, err := slotStartHour(timeSlot)
	if err != nil {
		return "", err
	}

	if isWeekend {
		return models.ZoneD, nil
	}

	switch {
	case hour >= 7 && hour < 10:
		return models.ZoneA, nil
	case hour >= 10 && hour < 12:
		return models.ZoneB, nil
	case hour >= 12 && hour < 16:
		return models.ZoneC, nil
	case hour >= 16 && hour < 18:
		return models.ZoneB, nil
	default:
		return models.ZoneD, nil
	}
}

// slotStartHour parses the starting hour out of a "HH:MM-HH:MM" slot string
func slotStartHour(timeSlot string) (int, error) {
	start, _, found := strings.Cut(timeSlot, "-")
	if !found {
		return 0, NewBusinessErrorf("INVALID_TIME_SLOT", "malformed time slot %q", ErrInvalidTimeSlot, timeSlot)
	}

	hourStr, _, found := strings.Cut(start, ":")
	if !found {
		return 0, NewBusinessErrorf("INVALID_TIME_SLOT", "malformed time slot %q", ErrInvalidTimeSlot, timeSlot)
	}

	hour, err := strconv.Atoi(strings.TrimSpace(hourStr))
	if err != nil {
		return 0, NewBusinessErrorf("INVALID_TIME_SLOT", "malformed time slot %q", ErrInvalidTimeSlot, timeSlot)
	}

	return hour, nil
}

// PricingFlow resolves prices for station slots
type PricingFlow interface {
	ResolvePrice(ctx context.Context, stationID uint, timeSlot string, durationSeconds int, isWeekend bool) (*PriceResolution, error)
	ResolveZonePrice(ctx context.Context, stationID uint, timeSlot string, durationSeconds int, isWeekend bool) (*PriceResolution, error)
}

// PricingFlowImpl implements the pricing business flow
type PricingFlowImpl struct {
	zonePriceRepo repository.ZonePriceRepository
	slotPriceRepo repository.TimeSlotPriceRepository
}

// NewPricingFlow creates a new pricing flow
func NewPricingFlow(
	zonePriceRepo repository.ZonePriceRepository,
	slotPriceRepo repository.TimeSlotPriceRepository,
) PricingFlow {
	return &PricingFlowImpl{
		zonePriceRepo: zonePriceRepo,
		slotPriceRepo: slotPriceRepo,
	}
}

// ResolvePrice resolves the price for one station slot. Zone/duration pricing
// wins over the flat slot price; when neither exists the result is price 0
// tagged not_found.
func (f *PricingFlowImpl) ResolvePrice(ctx context.Context, stationID uint, timeSlot string, durationSeconds int, isWeekend bool) (*PriceResolution, error) {
	resolution, err := f.ResolveZonePrice(ctx, stationID, timeSlot, durationSeconds, isWeekend)
	if err != nil {
		return nil, err
	}
	if resolution.Source == PriceSourceZone {
		return resolution, nil
	}

	slotPrice, err := f.slotPriceRepo.ActiveBySlot(ctx, stationID, timeSlot, isWeekend)
	if err != nil {
		return nil, NewBusinessError("SLOT_PRICE_LOOKUP_FAILED", "failed to look up slot price", err)
	}
	if slotPrice != nil {
		resolution.Price = slotPrice.Price
		resolution.Source = PriceSourceFallback
	}

	return resolution, nil
}

// ResolveZonePrice resolves a price through the zone/duration path only.
// Among zone prices whose duration covers the requested one, the tightest
// upper bound wins.
func (f *PricingFlowImpl) ResolveZonePrice(ctx context.Context, stationID uint, timeSlot string, durationSeconds int, isWeekend bool) (*PriceResolution, error) {
	zone, err := ResolveZone(timeSlot, isWeekend)
	if err != nil {
		return nil, err
	}

	resolution := &PriceResolution{Source: PriceSourceNotFound, Zone: zone}

	rows, err := f.zonePriceRepo.ListByZone(ctx, stationID, zone, isWeekend)
	if err != nil {
		return nil, NewBusinessError("ZONE_PRICE_LOOKUP_FAILED", "failed to look up zone prices", err)
	}

	var best *models.ZonePrice
	bestDuration := 0
	for _, row := range rows {
		rowDuration, err := row.DurationSeconds()
		if err != nil {
			continue
		}
		if rowDuration < durationSeconds {
			continue
		}
		if best == nil || rowDuration < bestDuration {
			best = row
			bestDuration = rowDuration
		}
	}

	if best != nil {
		resolution.Price = best.Price
		resolution.Source = PriceSourceZone
		resolution.Duration = best.Duration
	}

	return resolution, nil
}
