package businessflow

import (
	"context"
	"testing"

	"github.com/bpnlt/radioplan/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveZone(t *testing.T) {
	cases := []struct {
		timeSlot  string
		isWeekend bool
		want      models.Zone
	}{
		{"07:00-07:30", false, models.ZoneA},
		{"09:30-10:00", false, models.ZoneA},
		{"10:00-10:30", false, models.ZoneB},
		{"11:30-12:00", false, models.ZoneB},
		{"12:00-12:30", false, models.ZoneC},
		{"15:30-16:00", false, models.ZoneC},
		{"16:00-16:30", false, models.ZoneB},
		{"17:30-18:00", false, models.ZoneB},
		{"18:00-18:30", false, models.ZoneD},
		{"19:30-20:00", false, models.ZoneD},
		{"06:00-06:30", false, models.ZoneD},
		// Weekends are a single zone regardless of hour
		{"07:00-07:30", true, models.ZoneD},
		{"12:00-12:30", true, models.ZoneD},
	}

	for _, tc := range cases {
		zone, err := ResolveZone(tc.timeSlot, tc.isWeekend)
		require.NoError(t, err, tc.timeSlot)
		assert.Equal(t, tc.want, zone, "slot %s weekend=%v", tc.timeSlot, tc.isWeekend)
	}
}

func TestResolveZoneMalformedSlot(t *testing.T) {
	for _, slot := range []string{"", "0700", "morning", "xx:00-yy:30"} {
		_, err := ResolveZone(slot, false)
		assert.Error(t, err, "slot %q", slot)
	}
}

func TestResolvePrice(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := flows.fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)

	// Zone A weekday prices for 15s, 30s and 60s clips
	_, err = flows.fixtures.CreateTestZonePrice(station.ID, models.ZoneA, "15s", false, 50)
	require.NoError(t, err)
	_, err = flows.fixtures.CreateTestZonePrice(station.ID, models.ZoneA, "30s", false, 80)
	require.NoError(t, err)
	_, err = flows.fixtures.CreateTestZonePrice(station.ID, models.ZoneA, "60s", false, 120)
	require.NoError(t, err)

	// Flat fallback for an otherwise unpriced slot
	_, err = flows.fixtures.CreateTestSlotPrice(station.ID, "12:00-12:30", false, 65)
	require.NoError(t, err)

	t.Run("ExactDurationMatch", func(t *testing.T) {
		res, err := flows.pricing.ResolvePrice(ctx, station.ID, "08:00-08:30", 30, false)
		require.NoError(t, err)
		assert.Equal(t, PriceSourceZone, res.Source)
		assert.Equal(t, models.ZoneA, res.Zone)
		assert.Equal(t, 80.0, res.Price)
		assert.Equal(t, "30s", res.Duration)
	})

	t.Run("TightestUpperBoundWins", func(t *testing.T) {
		// 25s is covered by 30s and 60s; the 30s row is the tighter bound
		res, err := flows.pricing.ResolvePrice(ctx, station.ID, "08:00-08:30", 25, false)
		require.NoError(t, err)
		assert.Equal(t, PriceSourceZone, res.Source)
		assert.Equal(t, 80.0, res.Price)
	})

	t.Run("NoCoveringDuration", func(t *testing.T) {
		// 65s exceeds every stored duration, and zone C has no rows at all
		res, err := flows.pricing.ResolvePrice(ctx, station.ID, "08:00-08:30", 65, false)
		require.NoError(t, err)
		assert.Equal(t, PriceSourceNotFound, res.Source)
		assert.Equal(t, 0.0, res.Price)
	})

	t.Run("FlatSlotFallback", func(t *testing.T) {
		res, err := flows.pricing.ResolvePrice(ctx, station.ID, "12:00-12:30", 30, false)
		require.NoError(t, err)
		assert.Equal(t, PriceSourceFallback, res.Source)
		assert.Equal(t, 65.0, res.Price)
	})

	t.Run("NothingStored", func(t *testing.T) {
		res, err := flows.pricing.ResolvePrice(ctx, station.ID, "19:00-19:30", 30, false)
		require.NoError(t, err)
		assert.Equal(t, PriceSourceNotFound, res.Source)
		assert.Equal(t, 0.0, res.Price)
	})

	t.Run("WeekendUsesZoneD", func(t *testing.T) {
		_, err := flows.fixtures.CreateTestZonePrice(station.ID, models.ZoneD, "30s", true, 40)
		require.NoError(t, err)

		res, err := flows.pricing.ResolvePrice(ctx, station.ID, "08:00-08:30", 30, true)
		require.NoError(t, err)
		assert.Equal(t, PriceSourceZone, res.Source)
		assert.Equal(t, models.ZoneD, res.Zone)
		assert.Equal(t, 40.0, res.Price)
	})
}

func TestResolveZonePriceSkipsUnparseableDurations(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := flows.fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)

	_, err = flows.fixtures.CreateTestZonePrice(station.ID, models.ZoneA, "n/a", false, 999)
	require.NoError(t, err)
	_, err = flows.fixtures.CreateTestZonePrice(station.ID, models.ZoneA, "30", false, 70)
	require.NoError(t, err)

	// The bare "30" parses; the "n/a" row is ignored rather than failing the lookup
	res, err := flows.pricing.ResolveZonePrice(ctx, station.ID, "08:00-08:30", 30, false)
	require.NoError(t, err)
	assert.Equal(t, PriceSourceZone, res.Source)
	assert.Equal(t, 70.0, res.Price)
}
