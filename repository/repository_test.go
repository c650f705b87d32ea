package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bpnlt/radioplan/models"
	testingutil "github.com/bpnlt/radioplan/testing"
	"github.com/bpnlt/radioplan/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepoTest(t *testing.T) (*testingutil.TestDB, *testingutil.TestFixtures) {
	t.Helper()
	testDB, err := testingutil.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = testDB.Cleanup() })
	return testDB, testingutil.NewTestFixtures(testDB)
}

func TestBaseRepositoryByIDMissing(t *testing.T) {
	testDB, _ := setupRepoTest(t)
	repo := NewGroupRepository(testDB.DB)

	group, err := repo.ByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, group, "missing rows resolve to nil, not an error")
}

func TestGroupRepository(t *testing.T) {
	ctx := context.Background()
	testDB, fixtures := setupRepoTest(t)
	repo := NewGroupRepository(testDB.DB)

	group, err := fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	_, err = fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)

	byName, err := repo.ByName(ctx, "Tango")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, group.ID, byName.ID)

	missing, err := repo.ByName(ctx, "Nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	withStations, err := repo.ListWithStations(ctx)
	require.NoError(t, err)
	require.Len(t, withStations, 1)
	require.Len(t, withStations[0].Stations, 1)
	assert.Equal(t, "Radio Uno", withStations[0].Stations[0].Name)

	require.NoError(t, repo.DeleteByID(ctx, group.ID))
	gone, err := repo.ByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Stations cascade with the group
	stationRepo := NewStationRepository(testDB.DB)
	stations, err := stationRepo.ListByGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Empty(t, stations)
}

func TestTimeSlotPriceUpsert(t *testing.T) {
	ctx := context.Background()
	testDB, fixtures := setupRepoTest(t)
	repo := NewTimeSlotPriceRepository(testDB.DB)

	group, err := fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)

	first, err := repo.Upsert(ctx, station.ID, "08:00-08:30", false, 40)
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, station.ID, "08:00-08:30", false, 55)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same natural key updates in place")

	count, err := repo.Count(ctx, models.TimeSlotPriceFilter{StationID: &station.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// The weekend row is a distinct key
	weekend, err := repo.Upsert(ctx, station.ID, "08:00-08:30", true, 30)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, weekend.ID)

	active, err := repo.ActiveBySlot(ctx, station.ID, "08:00-08:30", false)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.InDelta(t, 55, active.Price, 1e-9)

	none, err := repo.ActiveBySlot(ctx, station.ID, "09:00-09:30", false)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestZonePriceRepository(t *testing.T) {
	ctx := context.Background()
	testDB, fixtures := setupRepoTest(t)
	repo := NewZonePriceRepository(testDB.DB)

	group, err := fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, station.ID, models.ZoneA, "30s", false, 100)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, station.ID, models.ZoneA, "60s", false, 180)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, station.ID, models.ZoneB, "30s", false, 80)
	require.NoError(t, err)

	rows, err := repo.ListByZone(ctx, station.ID, models.ZoneA, false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, models.ZoneA, row.Zone)
	}

	updated, err := repo.Upsert(ctx, station.ID, models.ZoneA, "30s", false, 110)
	require.NoError(t, err)
	assert.InDelta(t, 110, updated.Price, 1e-9)
	rows, err = repo.ListByZone(ctx, station.ID, models.ZoneA, false)
	require.NoError(t, err)
	assert.Len(t, rows, 2, "upsert does not duplicate the row")
}

func TestRatingUpsert(t *testing.T) {
	ctx := context.Background()
	testDB, fixtures := setupRepoTest(t)
	repo := NewRatingRepository(testDB.DB)

	group, err := fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)

	first, err := repo.Upsert(ctx, station.ID, "08:00-08:30", "All", false, 2.0, 1.0)
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, station.ID, "08:00-08:30", "All", false, 3.0, 1.5)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	active, err := repo.ActiveBySlot(ctx, station.ID, "08:00-08:30", "All", false)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.InDelta(t, 3.0, active.GRP, 1e-9)
	assert.InDelta(t, 1.5, active.TRP, 1e-9)
}

func TestSeasonalIndexRepository(t *testing.T) {
	ctx := context.Background()
	testDB, fixtures := setupRepoTest(t)
	repo := NewSeasonalIndexRepository(testDB.DB)

	group, err := fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	global, err := fixtures.CreateTestSeasonalIndex(3, nil, 0.95)
	require.NoError(t, err)
	scoped, err := fixtures.CreateTestSeasonalIndex(3, &group.ID, 1.4)
	require.NoError(t, err)

	// Nil selects the global row, a group ID its own row
	row, err := repo.ActiveByMonth(ctx, 3, nil)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, global.ID, row.ID)

	row, err = repo.ActiveByMonth(ctx, 3, &group.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, scoped.ID, row.ID)

	row, err = repo.ActiveByMonth(ctx, 7, nil)
	require.NoError(t, err)
	assert.Nil(t, row)

	require.NoError(t, repo.UpdateValue(ctx, global.ID, 1.05))
	row, err = repo.ActiveByMonth(ctx, 3, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.05, row.IndexValue, 1e-9)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	testDB, fixtures := setupRepoTest(t)
	repo := NewPlanRepository(testDB.DB)

	group, err := fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)
	plan, err := fixtures.CreateTestPlan("Spring",
		time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC),
		[]models.Station{*station})
	require.NoError(t, err)

	full, err := repo.ByIDFull(ctx, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, full)
	require.Len(t, full.SelectedStations, 1)
	assert.Equal(t, station.ID, full.SelectedStations[0].ID)

	byUUID, err := repo.ByUUID(ctx, plan.UUID.String())
	require.NoError(t, err)
	require.NotNil(t, byUUID)
	assert.Equal(t, plan.ID, byUUID.ID)

	require.NoError(t, repo.UpdateDiscounts(ctx, plan.ID, utils.ToPtr(15.0), nil))
	full, err = repo.ByIDFull(ctx, plan.ID)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, full.OurDiscount, 1e-9)
	assert.Zero(t, full.ClientDiscount, "nil leaves the other discount alone")

	require.NoError(t, repo.DeleteByID(ctx, plan.ID))
	gone, err := repo.ByIDFull(ctx, plan.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSpotRepositoryNaturalKey(t *testing.T) {
	ctx := context.Background()
	testDB, fixtures := setupRepoTest(t)
	repo := NewSpotRepository(testDB.DB)

	group, err := fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)
	plan, err := fixtures.CreateTestPlan("Spring",
		time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC),
		[]models.Station{*station})
	require.NoError(t, err)

	date := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)
	spot := &models.Spot{
		PlanID:       plan.ID,
		StationID:    station.ID,
		TimeSlot:     "08:00-08:30",
		Date:         date,
		IsWeekendRow: false,
		SpotCount:    2,
	}
	require.NoError(t, repo.Save(ctx, spot))

	found, err := repo.ByNaturalKey(ctx, plan.ID, station.ID, "08:00-08:30", date, false)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, spot.ID, found.ID)

	none, err := repo.ByNaturalKey(ctx, plan.ID, station.ID, "09:00-09:30", date, false)
	require.NoError(t, err)
	assert.Nil(t, none)

	found.SpotCount = 5
	require.NoError(t, repo.Update(ctx, found))
	listed, err := repo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 5, listed[0].SpotCount)

	require.NoError(t, repo.DeleteByID(ctx, spot.ID))
	listed, err = repo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCapturedDataRepository(t *testing.T) {
	ctx := context.Background()
	testDB, fixtures := setupRepoTest(t)
	repo := NewCapturedStationDataRepository(testDB.DB)

	group, err := fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)
	plan, err := fixtures.CreateTestPlan("Spring",
		time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		[]models.Station{*station})
	require.NoError(t, err)

	jan, err := fixtures.CreateTestCapturedData(plan.ID, station.ID, "08:00-08:30", false, 1, 2.0, 1.0, 100, 1.1)
	require.NoError(t, err)
	feb, err := fixtures.CreateTestCapturedData(plan.ID, station.ID, "08:00-08:30", false, 2, 2.0, 1.0, 100, 0.95)
	require.NoError(t, err)

	row, err := repo.ByKey(ctx, plan.ID, station.ID, "08:00-08:30", false, 1)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, jan.ID, row.ID)

	slotRows, err := repo.ListByPlanSlot(ctx, plan.ID, station.ID, "08:00-08:30", false)
	require.NoError(t, err)
	assert.Len(t, slotRows, 2)

	require.NoError(t, repo.UpdateSeasonalIndex(ctx, []uint{jan.ID, feb.ID}, 1.2))
	slotRows, err = repo.ListByPlanSlot(ctx, plan.ID, station.ID, "08:00-08:30", false)
	require.NoError(t, err)
	for _, r := range slotRows {
		assert.InDelta(t, 1.2, r.SeasonalIndex, 1e-9)
	}
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	testDB, _ := setupRepoTest(t)
	repo := NewGroupRepository(testDB.DB)

	sentinel := errors.New("boom")
	err := WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
		if err := repo.Save(txCtx, &models.Group{Name: "Doomed"}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	count, err := repo.Count(ctx, models.GroupFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWithTransactionCommits(t *testing.T) {
	ctx := context.Background()
	testDB, _ := setupRepoTest(t)
	repo := NewGroupRepository(testDB.DB)

	err := WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
		return repo.Save(txCtx, &models.Group{Name: "Kept"})
	})
	require.NoError(t, err)

	group, err := repo.ByName(ctx, "Kept")
	require.NoError(t, err)
	require.NotNil(t, group)

	// The committed row is visible through a plain context read inside getDB
	var backdoor models.Group
	require.NoError(t, testDB.DB.First(&backdoor, group.ID).Error)
	assert.Equal(t, "Kept", backdoor.Name)
}
