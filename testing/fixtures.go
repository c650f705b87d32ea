// Package testing provides test utilities and database setup for testing the radio planning service
package testing

import (
	"fmt"
	"time"

	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestGroup creates a station group
func (tf *TestFixtures) CreateTestGroup(name string) (*models.Group, error) {
	group := &models.Group{Name: name}
	if err := tf.DB.DB.Create(group).Error; err != nil {
		return nil, fmt.Errorf("failed to create test group: %w", err)
	}
	return group, nil
}

// CreateTestStation creates a station under the given group
func (tf *TestFixtures) CreateTestStation(name string, groupID uint) (*models.Station, error) {
	station := &models.Station{Name: name, GroupID: groupID}
	if err := tf.DB.DB.Create(station).Error; err != nil {
		return nil, fmt.Errorf("failed to create test station: %w", err)
	}
	return station, nil
}

// CreateTestSlotPrice creates a flat time-slot price for a station
func (tf *TestFixtures) CreateTestSlotPrice(stationID uint, timeSlot string, isWeekend bool, price float64) (*models.TimeSlotPrice, error) {
	slotPrice := &models.TimeSlotPrice{
		StationID: stationID,
		TimeSlot:  timeSlot,
		IsWeekend: isWeekend,
		Price:     price,
		IsActive:  true,
	}
	if err := tf.DB.DB.Create(slotPrice).Error; err != nil {
		return nil, fmt.Errorf("failed to create test slot price: %w", err)
	}
	return slotPrice, nil
}

// CreateTestZonePrice creates a zone/duration price for a station
func (tf *TestFixtures) CreateTestZonePrice(stationID uint, zone models.Zone, duration string, isWeekend bool, price float64) (*models.ZonePrice, error) {
	zonePrice := &models.ZonePrice{
		StationID: stationID,
		Zone:      zone,
		Duration:  duration,
		IsWeekend: isWeekend,
		Price:     price,
	}
	if err := tf.DB.DB.Create(zonePrice).Error; err != nil {
		return nil, fmt.Errorf("failed to create test zone price: %w", err)
	}
	return zonePrice, nil
}

// CreateTestRating creates a rating for a station time slot
func (tf *TestFixtures) CreateTestRating(stationID uint, timeSlot string, isWeekend bool, grp, trp float64) (*models.Rating, error) {
	rating := &models.Rating{
		StationID:      stationID,
		TimeSlot:       timeSlot,
		TargetAudience: utils.DefaultTargetAudience,
		IsWeekend:      isWeekend,
		GRP:            grp,
		TRP:            trp,
		IsActive:       true,
	}
	if err := tf.DB.DB.Create(rating).Error; err != nil {
		return nil, fmt.Errorf("failed to create test rating: %w", err)
	}
	return rating, nil
}

// CreateTestSeasonalIndex creates a seasonal index row. A nil groupID creates
// the global default for the month.
func (tf *TestFixtures) CreateTestSeasonalIndex(month int, groupID *uint, value float64) (*models.SeasonalIndex, error) {
	index := &models.SeasonalIndex{
		Name:       fmt.Sprintf("Month %d", month),
		Month:      month,
		GroupID:    groupID,
		IndexValue: value,
		IsActive:   true,
	}
	if err := tf.DB.DB.Create(index).Error; err != nil {
		return nil, fmt.Errorf("failed to create test seasonal index: %w", err)
	}
	return index, nil
}

// CreateTestPlan creates a plan with the given date range and stations. The
// snapshot is not captured; tests that need captured rows go through the plan
// flow or create them directly.
func (tf *TestFixtures) CreateTestPlan(name string, start, end time.Time, stations []models.Station) (*models.Plan, error) {
	plan := &models.Plan{
		CampaignID:     1,
		CampaignName:   name,
		StartDate:      utils.DateOnly(start),
		EndDate:        utils.DateOnly(end),
		TargetAudience: utils.DefaultTargetAudience,
	}
	if err := tf.DB.DB.Create(plan).Error; err != nil {
		return nil, fmt.Errorf("failed to create test plan: %w", err)
	}
	if len(stations) > 0 {
		if err := tf.DB.DB.Model(plan).Association("SelectedStations").Append(&stations); err != nil {
			return nil, fmt.Errorf("failed to attach test stations: %w", err)
		}
		plan.SelectedStations = stations
	}
	return plan, nil
}

// CreateTestCapturedData creates a captured snapshot row for a plan
func (tf *TestFixtures) CreateTestCapturedData(planID, stationID uint, timeSlot string, isWeekend bool, month int, grp, trp, basePrice, seasonalIndex float64) (*models.CapturedStationData, error) {
	affinity := 0.0
	if grp > 0 {
		affinity = trp / grp
	}
	row := &models.CapturedStationData{
		PlanID:        planID,
		StationID:     stationID,
		TimeSlot:      timeSlot,
		IsWeekend:     isWeekend,
		Month:         month,
		GRP:           grp,
		TRP:           trp,
		Affinity:      affinity,
		BasePrice:     basePrice,
		SeasonalIndex: seasonalIndex,
	}
	if err := tf.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create test captured data: %w", err)
	}
	return row, nil
}
