package businessflow

import (
	"context"
	"testing"

	"github.com/bpnlt/radioplan/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultData(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	require.NoError(t, flows.catalog.SeedDefaultData(ctx))

	groups, err := flows.catalog.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.ElementsMatch(t, []string{"Tango", "Reklamos ekspertai", "PHR"}, names)

	indices, err := flows.seasonal.ListIndices(ctx)
	require.NoError(t, err)
	require.Len(t, indices, 12)
	for _, idx := range indices {
		assert.Nil(t, idx.GroupID)
		assert.InDelta(t, 1.0, idx.IndexValue, 1e-9)
	}

	// Seeding twice changes nothing
	require.NoError(t, flows.catalog.SeedDefaultData(ctx))
	groups, err = flows.catalog.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 3)
}

func TestSeedSkipsPopulatedCatalog(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	_, err := flows.catalog.CreateGroup(ctx, "Existing")
	require.NoError(t, err)

	require.NoError(t, flows.catalog.SeedDefaultData(ctx))

	groups, err := flows.catalog.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Existing", groups[0].Name)
}

func TestGroupLifecycle(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.catalog.CreateGroup(ctx, "Tango")
	require.NoError(t, err)
	require.NotZero(t, group.ID)

	_, err = flows.catalog.CreateGroup(ctx, "Tango")
	assert.ErrorIs(t, err, ErrGroupAlreadyExists)

	_, err = flows.catalog.CreateGroup(ctx, "")
	assert.ErrorIs(t, err, ErrGroupNameRequired)

	require.NoError(t, flows.catalog.DeleteGroup(ctx, group.ID))
	assert.ErrorIs(t, flows.catalog.DeleteGroup(ctx, group.ID), ErrGroupNotFound)
}

func TestStationLifecycle(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.catalog.CreateGroup(ctx, "Tango")
	require.NoError(t, err)

	station, err := flows.catalog.CreateStation(ctx, "Radio Uno", group.ID)
	require.NoError(t, err)

	_, err = flows.catalog.CreateStation(ctx, "Radio Uno", group.ID)
	assert.ErrorIs(t, err, ErrStationAlreadyExists)

	_, err = flows.catalog.CreateStation(ctx, "Radio Due", 999)
	assert.ErrorIs(t, err, ErrGroupNotFound)

	got, err := flows.catalog.GetStation(ctx, station.ID)
	require.NoError(t, err)
	assert.Equal(t, "Radio Uno", got.Name)

	other, err := flows.catalog.CreateGroup(ctx, "PHR")
	require.NoError(t, err)
	_, err = flows.catalog.CreateStation(ctx, "Radio Due", other.ID)
	require.NoError(t, err)

	scoped, err := flows.catalog.ListStations(ctx, &group.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Radio Uno", scoped[0].Name)

	all, err := flows.catalog.ListStations(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, flows.catalog.DeleteStation(ctx, station.ID))
	_, err = flows.catalog.GetStation(ctx, station.ID)
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestUpsertSlotPrice(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.catalog.CreateGroup(ctx, "Tango")
	require.NoError(t, err)
	station, err := flows.catalog.CreateStation(ctx, "Radio Uno", group.ID)
	require.NoError(t, err)

	first, err := flows.catalog.UpsertSlotPrice(ctx, station.ID, "08:00-08:30", false, 40)
	require.NoError(t, err)
	second, err := flows.catalog.UpsertSlotPrice(ctx, station.ID, "08:00-08:30", false, 55)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.InDelta(t, 55, second.Price, 1e-9)

	rows, err := flows.catalog.ListSlotPrices(ctx, station.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = flows.catalog.UpsertSlotPrice(ctx, station.ID, "08:00-08:30", false, -1)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = flows.catalog.UpsertSlotPrice(ctx, station.ID, "morning", false, 10)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	_, err = flows.catalog.UpsertSlotPrice(ctx, 999, "08:00-08:30", false, 10)
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestUpsertZonePrice(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.catalog.CreateGroup(ctx, "Tango")
	require.NoError(t, err)
	station, err := flows.catalog.CreateStation(ctx, "Radio Uno", group.ID)
	require.NoError(t, err)

	first, err := flows.catalog.UpsertZonePrice(ctx, station.ID, models.ZoneA, "30s", false, 100)
	require.NoError(t, err)
	second, err := flows.catalog.UpsertZonePrice(ctx, station.ID, models.ZoneA, "30s", false, 110)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.InDelta(t, 110, second.Price, 1e-9)

	_, err = flows.catalog.UpsertZonePrice(ctx, station.ID, models.Zone("E"), "30s", false, 10)
	assert.ErrorIs(t, err, ErrInvalidZone)
	_, err = flows.catalog.UpsertZonePrice(ctx, station.ID, models.ZoneA, "half a minute", false, 10)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	_, err = flows.catalog.UpsertZonePrice(ctx, station.ID, models.ZoneA, "30s", false, -5)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestUpsertRating(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.catalog.CreateGroup(ctx, "Tango")
	require.NoError(t, err)
	station, err := flows.catalog.CreateStation(ctx, "Radio Uno", group.ID)
	require.NoError(t, err)

	// Empty audience falls back to the default
	rating, err := flows.catalog.UpsertRating(ctx, station.ID, "08:00-08:30", "", false, 2.0, 1.0)
	require.NoError(t, err)
	assert.Equal(t, "All", rating.TargetAudience)

	updated, err := flows.catalog.UpsertRating(ctx, station.ID, "08:00-08:30", "All", false, 3.0, 1.5)
	require.NoError(t, err)
	assert.Equal(t, rating.ID, updated.ID)
	assert.InDelta(t, 3.0, updated.GRP, 1e-9)

	_, err = flows.catalog.UpsertRating(ctx, station.ID, "08:00-08:30", "All", false, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidRating)
}
