package businessflow

import (
	"testing"

	"github.com/bpnlt/radioplan/app/services"
	"github.com/bpnlt/radioplan/repository"
	testingutil "github.com/bpnlt/radioplan/testing"
	"gorm.io/gorm"
)

// testFlows bundles fully wired flows over an in-memory database
type testFlows struct {
	db       *gorm.DB
	fixtures *testingutil.TestFixtures

	catalog  CatalogFlow
	pricing  PricingFlow
	seasonal SeasonalFlow
	plans    PlanFlow
	spots    SpotFlow
	export   ExportFlow
	imports  ImportFlow
}

// newTestFlows wires the whole flow stack against a fresh database. The
// seasonal provider defaults to nil; tests exercising the live fetch build
// their own SeasonalFlow.
func newTestFlows(t *testing.T, provider services.SeasonalAdjustmentProvider) *testFlows {
	t.Helper()

	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Fatalf("setup test db: %v", err)
	}
	t.Cleanup(func() { _ = testDB.Cleanup() })

	db := testDB.DB
	groupRepo := repository.NewGroupRepository(db)
	stationRepo := repository.NewStationRepository(db)
	slotPriceRepo := repository.NewTimeSlotPriceRepository(db)
	zonePriceRepo := repository.NewZonePriceRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	seasonalRepo := repository.NewSeasonalIndexRepository(db)
	planRepo := repository.NewPlanRepository(db)
	spotRepo := repository.NewSpotRepository(db)
	capturedRepo := repository.NewCapturedStationDataRepository(db)

	pricing := NewPricingFlow(zonePriceRepo, slotPriceRepo)
	seasonal := NewSeasonalFlow(seasonalRepo, stationRepo, provider)
	engine := NewSpotMetricsEngine(capturedRepo, ratingRepo, pricing, seasonal, stationRepo)
	spots := NewSpotFlow(planRepo, spotRepo, engine, db)
	plans := NewPlanFlow(planRepo, stationRepo, ratingRepo, capturedRepo, pricing, seasonal, spots, db)

	return &testFlows{
		db:       db,
		fixtures: testingutil.NewTestFixtures(testDB),
		catalog:  NewCatalogFlow(groupRepo, stationRepo, slotPriceRepo, zonePriceRepo, ratingRepo, seasonalRepo),
		pricing:  pricing,
		seasonal: seasonal,
		plans:    plans,
		spots:    spots,
		export:   NewExportFlow(plans),
		imports:  NewImportFlow(groupRepo, stationRepo, slotPriceRepo, ratingRepo, db),
	}
}
