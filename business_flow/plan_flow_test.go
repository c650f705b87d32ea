package businessflow

import (
	"context"
	"testing"

	"github.com/bpnlt/radioplan/app/dto"
	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlanCapturesSnapshot(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := flows.fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)

	_, err = flows.fixtures.CreateTestRating(station.ID, "08:00-08:30", false, 2.5, 1.5)
	require.NoError(t, err)
	_, err = flows.fixtures.CreateTestZonePrice(station.ID, models.ZoneA, "30s", false, 100)
	require.NoError(t, err)
	_, err = flows.fixtures.CreateTestSeasonalIndex(1, nil, 1.1)
	require.NoError(t, err)
	_, err = flows.fixtures.CreateTestSeasonalIndex(2, nil, 0.95)
	require.NoError(t, err)

	plan, err := flows.plans.CreatePlan(ctx, &dto.CreatePlanRequest{
		CampaignID:   7,
		CampaignName: "Winter push",
		StartDate:    "2025-01-15",
		EndDate:      "2025-02-10",
		StationIDs:   []uint{station.ID},
		Clips:        []dto.ClipDTO{{Name: "Main", Duration: 30}},
	})
	require.NoError(t, err)
	require.NotZero(t, plan.ID)
	assert.Equal(t, utils.DefaultTargetAudience, plan.TargetAudience)

	rows, err := flows.plans.ListCapturedData(ctx, plan.ID)
	require.NoError(t, err)

	// One row per station, month, canonical slot and weekday/weekend variant
	slots := utils.TimeSlots()
	assert.Len(t, rows, 1*2*len(slots)*2)

	var janRow, febRow *models.CapturedStationData
	for _, row := range rows {
		if row.TimeSlot != "08:00-08:30" || row.IsWeekend {
			continue
		}
		switch row.Month {
		case 1:
			janRow = row
		case 2:
			febRow = row
		}
	}
	require.NotNil(t, janRow)
	require.NotNil(t, febRow)

	// Ratings and price are month-invariant; the seasonal index is not
	assert.Equal(t, 2.5, janRow.GRP)
	assert.Equal(t, 1.5, janRow.TRP)
	assert.InDelta(t, 0.6, janRow.Affinity, 1e-9)
	assert.Equal(t, 100.0, janRow.BasePrice)
	assert.Equal(t, 1.1, janRow.SeasonalIndex)
	assert.Equal(t, 0.95, febRow.SeasonalIndex)

	// Unrated, unpriced slots still get a row, frozen at zero
	var empty *models.CapturedStationData
	for _, row := range rows {
		if row.TimeSlot == "19:00-19:30" && !row.IsWeekend && row.Month == 1 {
			empty = row
		}
	}
	require.NotNil(t, empty)
	assert.Equal(t, 0.0, empty.GRP)
	assert.Equal(t, 0.0, empty.BasePrice)
	assert.Equal(t, 1.1, empty.SeasonalIndex)
}

func TestCreatePlanValidation(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := flows.fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)

	base := dto.CreatePlanRequest{
		CampaignID: 1,
		StartDate:  "2025-03-01",
		EndDate:    "2025-03-31",
		StationIDs: []uint{station.ID},
	}

	t.Run("ReversedDates", func(t *testing.T) {
		req := base
		req.StartDate, req.EndDate = req.EndDate, req.StartDate
		_, err := flows.plans.CreatePlan(ctx, &req)
		assert.ErrorIs(t, err, ErrStartDateAfterEndDate)
	})

	t.Run("NoStations", func(t *testing.T) {
		req := base
		req.StationIDs = nil
		_, err := flows.plans.CreatePlan(ctx, &req)
		assert.ErrorIs(t, err, ErrPlanStationsRequired)
	})

	t.Run("UnknownStation", func(t *testing.T) {
		req := base
		req.StationIDs = []uint{station.ID + 99}
		_, err := flows.plans.CreatePlan(ctx, &req)
		assert.ErrorIs(t, err, ErrStationNotFound)

		// The failed creation left nothing behind
		plans, err := flows.plans.ListPlans(ctx, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, plans)
	})

	t.Run("DiscountOutOfRange", func(t *testing.T) {
		req := base
		req.OurDiscount = 120
		_, err := flows.plans.CreatePlan(ctx, &req)
		assert.ErrorIs(t, err, ErrDiscountOutOfRange)
	})
}

func TestUpdateDiscountsRecomputesSpots(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := flows.fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)
	_, err = flows.fixtures.CreateTestZonePrice(station.ID, models.ZoneA, "30s", false, 100)
	require.NoError(t, err)

	plan, err := flows.plans.CreatePlan(ctx, &dto.CreatePlanRequest{
		CampaignID: 1,
		StartDate:  "2025-03-03",
		EndDate:    "2025-03-09",
		StationIDs: []uint{station.ID},
	})
	require.NoError(t, err)

	spot, err := flows.spots.UpsertSpot(ctx, &dto.UpsertSpotRequest{
		PlanID:    plan.ID,
		StationID: station.ID,
		TimeSlot:  "08:00-08:30",
		Date:      "2025-03-04",
		SpotCount: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, spot.FinalPrice)

	our := 10.0
	client := 10.0
	_, err = flows.plans.UpdateDiscounts(ctx, &dto.UpdateDiscountsRequest{
		PlanID:         plan.ID,
		OurDiscount:    &our,
		ClientDiscount: &client,
	})
	require.NoError(t, err)

	spots, err := flows.spots.ListSpots(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, spots, 1)
	// Sequential application: 100 * 0.9 * 0.9
	assert.InDelta(t, 81.0, spots[0].FinalPrice, 1e-9)

	t.Run("NilFieldLeavesValue", func(t *testing.T) {
		lower := 5.0
		updated, err := flows.plans.UpdateDiscounts(ctx, &dto.UpdateDiscountsRequest{
			PlanID:      plan.ID,
			OurDiscount: &lower,
		})
		require.NoError(t, err)
		assert.Equal(t, 5.0, updated.OurDiscount)
		assert.Equal(t, 10.0, updated.ClientDiscount)
	})

	t.Run("NoFieldsRejected", func(t *testing.T) {
		_, err := flows.plans.UpdateDiscounts(ctx, &dto.UpdateDiscountsRequest{PlanID: plan.ID})
		assert.ErrorIs(t, err, ErrPlanUpdateRequired)
	})
}

func TestUpdateCapturedIndex(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := flows.fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)
	otherStation, err := flows.fixtures.CreateTestStation("Radio Due", group.ID)
	require.NoError(t, err)
	_, err = flows.fixtures.CreateTestZonePrice(station.ID, models.ZoneA, "30s", false, 100)
	require.NoError(t, err)

	plan, err := flows.plans.CreatePlan(ctx, &dto.CreatePlanRequest{
		CampaignID: 1,
		StartDate:  "2025-03-03",
		EndDate:    "2025-03-09",
		StationIDs: []uint{station.ID},
	})
	require.NoError(t, err)

	spot, err := flows.spots.UpsertSpot(ctx, &dto.UpsertSpotRequest{
		PlanID:    plan.ID,
		StationID: station.ID,
		TimeSlot:  "08:00-08:30",
		Date:      "2025-03-04",
		SpotCount: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, spot.SeasonalIndex)

	err = flows.plans.UpdateCapturedIndex(ctx, &dto.UpdateCapturedIndexRequest{
		PlanID:     plan.ID,
		StationID:  station.ID,
		Month:      3,
		IndexValue: 1.2,
	})
	require.NoError(t, err)

	// The snapshot rows and the spot were both updated
	rows, err := flows.plans.ListCapturedData(ctx, plan.ID)
	require.NoError(t, err)
	for _, row := range rows {
		assert.Equal(t, 1.2, row.SeasonalIndex)
	}

	spots, err := flows.spots.ListSpots(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, spots, 1)
	assert.Equal(t, 1.2, spots[0].SeasonalIndex)
	assert.InDelta(t, 120.0, spots[0].FinalPrice, 1e-9)

	t.Run("StationNotInPlan", func(t *testing.T) {
		err := flows.plans.UpdateCapturedIndex(ctx, &dto.UpdateCapturedIndexRequest{
			PlanID:     plan.ID,
			StationID:  otherStation.ID,
			Month:      3,
			IndexValue: 1.2,
		})
		assert.ErrorIs(t, err, ErrStationNotInPlan)
	})

	t.Run("MonthOutsidePlan", func(t *testing.T) {
		err := flows.plans.UpdateCapturedIndex(ctx, &dto.UpdateCapturedIndexRequest{
			PlanID:     plan.ID,
			StationID:  station.ID,
			Month:      7,
			IndexValue: 1.2,
		})
		assert.ErrorIs(t, err, ErrCapturedDataNotFound)
	})
}

func TestDeletePlan(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := flows.fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)

	plan, err := flows.plans.CreatePlan(ctx, &dto.CreatePlanRequest{
		CampaignID: 1,
		StartDate:  "2025-03-03",
		EndDate:    "2025-03-09",
		StationIDs: []uint{station.ID},
	})
	require.NoError(t, err)

	require.NoError(t, flows.plans.DeletePlan(ctx, plan.ID))

	_, err = flows.plans.GetPlan(ctx, plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	err = flows.plans.DeletePlan(ctx, plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
