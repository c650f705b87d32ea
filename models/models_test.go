package models

import (
	"testing"
	"time"

	"github.com/bpnlt/radioplan/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanMonthsSpanned(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected []int
	}{
		{"SingleMonth", date(2025, time.March, 3), date(2025, time.March, 16), []int{3}},
		{"AdjacentMonths", date(2025, time.January, 15), date(2025, time.February, 10), []int{1, 2}},
		{"FullQuarter", date(2025, time.April, 1), date(2025, time.June, 30), []int{4, 5, 6}},
		{"YearBoundary", date(2024, time.December, 20), date(2025, time.January, 5), []int{12, 1}},
		{"FullYearCollapsesDuplicates", date(2024, time.November, 1), date(2025, time.December, 31), []int{11, 12, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := &Plan{StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.expected, plan.MonthsSpanned())
		})
	}
}

func TestPlanDefaultClipDuration(t *testing.T) {
	plan := &Plan{}
	assert.Equal(t, 30, plan.DefaultClipDuration())

	plan.Clips = []Clip{{Name: "Main", Duration: 20}, {Name: "Tag", Duration: 10}}
	assert.Equal(t, 20, plan.DefaultClipDuration())

	plan.Clips = []Clip{{Name: "Broken", Duration: 0}}
	assert.Equal(t, 30, plan.DefaultClipDuration())
}

func TestRatingAffinity(t *testing.T) {
	assert.InDelta(t, 0.5, (&Rating{GRP: 2.0, TRP: 1.0}).Affinity(), 1e-9)
	assert.InDelta(t, 1.0, (&Rating{GRP: 1.5, TRP: 1.5}).Affinity(), 1e-9)
	assert.Zero(t, (&Rating{GRP: 0, TRP: 1.0}).Affinity())
}

func TestZonePriceDurationSeconds(t *testing.T) {
	secs, err := (&ZonePrice{Duration: "30s"}).DurationSeconds()
	require.NoError(t, err)
	assert.Equal(t, 30, secs)

	secs, err = (&ZonePrice{Duration: " 45 "}).DurationSeconds()
	require.NoError(t, err)
	assert.Equal(t, 45, secs)

	_, err = (&ZonePrice{Duration: "half a minute"}).DurationSeconds()
	assert.Error(t, err)
}

func TestZoneValid(t *testing.T) {
	for _, z := range []Zone{ZoneA, ZoneB, ZoneC, ZoneD} {
		assert.True(t, z.Valid(), z)
	}
	assert.False(t, Zone("E").Valid())
	assert.False(t, Zone("").Valid())
}

func TestSpotIsWeekendDate(t *testing.T) {
	assert.False(t, (&Spot{Date: date(2025, time.March, 4)}).IsWeekendDate()) // Tuesday
	assert.True(t, (&Spot{Date: date(2025, time.March, 8)}).IsWeekendDate())  // Saturday
	assert.True(t, (&Spot{Date: date(2025, time.March, 9)}).IsWeekendDate())  // Sunday
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "radio_groups", Group{}.TableName())
	assert.Equal(t, "radio_stations", Station{}.TableName())
	assert.Equal(t, "station_prices", TimeSlotPrice{}.TableName())
	assert.Equal(t, "station_zone_prices", ZonePrice{}.TableName())
	assert.Equal(t, "station_ratings", Rating{}.TableName())
	assert.Equal(t, "seasonal_indices", SeasonalIndex{}.TableName())
	assert.Equal(t, "radio_plans", Plan{}.TableName())
	assert.Equal(t, "radio_clips", Clip{}.TableName())
	assert.Equal(t, "radio_spots", Spot{}.TableName())
	assert.Equal(t, "plan_station_data", CapturedStationData{}.TableName())
}

func TestTimeSlotGrid(t *testing.T) {
	slots := utils.TimeSlots()
	require.Len(t, slots, 26)
	assert.Equal(t, "07:00-07:30", slots[0])
	assert.Equal(t, "19:30-20:00", slots[25])
}
