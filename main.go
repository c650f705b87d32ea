// Package main provides the main entry point for the RadioPlan media planning service
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bpnlt/radioplan/app/handlers"
	"github.com/bpnlt/radioplan/app/router"
	"github.com/bpnlt/radioplan/app/services"
	businessflow "github.com/bpnlt/radioplan/business_flow"
	"github.com/bpnlt/radioplan/config"
	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router router.Router
	config *config.ProductionConfig
}

func main() {
	log.Println("Starting RadioPlan application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.router.Start(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// runMigrations applies the schema for all domain models
func runMigrations(db *gorm.DB) error {
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

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize repositories
	groupRepo := repository.NewGroupRepository(db)
	stationRepo := repository.NewStationRepository(db)
	slotPriceRepo := repository.NewTimeSlotPriceRepository(db)
	zonePriceRepo := repository.NewZonePriceRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	seasonalRepo := repository.NewSeasonalIndexRepository(db)
	planRepo := repository.NewPlanRepository(db)
	spotRepo := repository.NewSpotRepository(db)
	capturedRepo := repository.NewCapturedStationDataRepository(db)

	// Initialize external service clients
	var campaignProvider services.CampaignProvider
	if cfg.CRM.BaseURL != "" {
		campaignProvider = services.NewCRMClient(cfg.CRM.BaseURL, cfg.CRM.APIKey, cfg.CRM.Timeout)
		log.Printf("CRM client initialized for %s", cfg.CRM.BaseURL)
	} else {
		log.Println("CRM base URL not configured, campaign listing disabled")
	}

	var seasonalProvider services.SeasonalAdjustmentProvider
	if cfg.Seasonal.BaseURL != "" {
		seasonalProvider = services.NewSeasonalAdjustmentClient(cfg.Seasonal.BaseURL, cfg.Seasonal.Timeout)
		log.Printf("Seasonal adjustment client initialized for %s", cfg.Seasonal.BaseURL)
	} else {
		log.Println("Seasonal base URL not configured, live index fetching disabled")
	}

	// Initialize flows
	catalogFlow := businessflow.NewCatalogFlow(
		groupRepo,
		stationRepo,
		slotPriceRepo,
		zonePriceRepo,
		ratingRepo,
		seasonalRepo,
	)

	pricingFlow := businessflow.NewPricingFlow(zonePriceRepo, slotPriceRepo)
	seasonalFlow := businessflow.NewSeasonalFlow(seasonalRepo, stationRepo, seasonalProvider)

	spotEngine := businessflow.NewSpotMetricsEngine(
		capturedRepo,
		ratingRepo,
		pricingFlow,
		seasonalFlow,
		stationRepo,
	)
	spotFlow := businessflow.NewSpotFlow(planRepo, spotRepo, spotEngine, db)

	planFlow := businessflow.NewPlanFlow(
		planRepo,
		stationRepo,
		ratingRepo,
		capturedRepo,
		pricingFlow,
		seasonalFlow,
		spotFlow,
		db,
	)

	exportFlow := businessflow.NewExportFlow(planFlow)
	importFlow := businessflow.NewImportFlow(groupRepo, stationRepo, slotPriceRepo, ratingRepo, db)
	campaignFlow := businessflow.NewCampaignFlow(campaignProvider)

	// Seed default groups and the neutral seasonal index table on first run
	if err := catalogFlow.SeedDefaultData(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to seed default data: %w", err)
	}

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogFlow, pricingFlow, seasonalFlow, importFlow)
	planHandler := handlers.NewPlanHandler(planFlow, exportFlow)
	spotHandler := handlers.NewSpotHandler(spotFlow)
	campaignHandler := handlers.NewCampaignHandler(campaignFlow)

	// Initialize router
	appRouter := router.NewFiberRouter(catalogHandler, planHandler, spotHandler, campaignHandler)

	log.Println("Application initialized successfully")

	return &Application{
		router: appRouter,
		config: cfg,
	}, nil
}
