// Package testing provides test utilities and database setup for testing the radio planning service
package testing

import (
	"fmt"

	"github.com/bpnlt/radioplan/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB represents a test database instance
type TestDB struct {
	DB *gorm.DB
}

// SetupTestDB opens an isolated in-memory SQLite database and runs migrations
func SetupTestDB() (*TestDB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}

	if err := runTestMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run test migrations: %w", err)
	}

	return &TestDB{DB: db}, nil
}

// runTestMigrations applies the schema for all domain models
func runTestMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Group{},
		&models.Station{},
		&models.TimeSlotPrice{},
		&models.ZonePrice{},
		&models.Rating{},
		&models.SeasonalIndex{},
		&models.Plan{},
		&models.Clip{},
		&models.Spot{},
		&models.CapturedStationData{},
	)
}

// TestWithDB runs fn against a fresh in-memory database and cleans up afterwards
func TestWithDB(fn func(*TestDB) error) error {
	testDB, err := SetupTestDB()
	if err != nil {
		return err
	}
	defer testDB.Cleanup()
	return fn(testDB)
}

// Cleanup closes the underlying connection
func (tdb *TestDB) Cleanup() error {
	sqlDB, err := tdb.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
