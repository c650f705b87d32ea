package businessflow

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bpnlt/radioplan/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seasonalPage renders the portal's adjustment table the way the scraper
// expects it: one input.index-value per month, January first.
func seasonalPage(values [12]float64) string {
	page := "<html><body><table>"
	for _, v := range values {
		page += fmt.Sprintf(`<tr><td><input class="index-value" value="%.2f"></td></tr>`, v)
	}
	return page + "</table></body></html>"
}

func TestSeasonalResolveIndexChain(t *testing.T) {
	ctx := context.Background()

	var liveValues [12]float64
	for i := range liveValues {
		liveValues[i] = 1.0
	}
	liveValues[2] = 1.25 // March

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, seasonalPage(liveValues))
	}))
	defer server.Close()

	provider := services.NewSeasonalAdjustmentClient(server.URL, 0)
	flows := newTestFlows(t, provider)

	group, err := flows.fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)

	t.Run("StoredGroupValueWins", func(t *testing.T) {
		_, err := flows.fixtures.CreateTestSeasonalIndex(1, &group.ID, 1.4)
		require.NoError(t, err)
		_, err = flows.fixtures.CreateTestSeasonalIndex(1, nil, 1.1)
		require.NoError(t, err)

		assert.Equal(t, 1.4, flows.seasonal.ResolveIndex(ctx, &group.ID, 1))
	})

	t.Run("GlobalValueWhenGroupMissing", func(t *testing.T) {
		_, err := flows.fixtures.CreateTestSeasonalIndex(2, nil, 0.95)
		require.NoError(t, err)

		assert.Equal(t, 0.95, flows.seasonal.ResolveIndex(ctx, &group.ID, 2))
	})

	t.Run("LiveFetchWhenNothingStored", func(t *testing.T) {
		assert.Equal(t, 1.25, flows.seasonal.ResolveIndex(ctx, &group.ID, 3))
	})

	t.Run("DefaultWithoutGroup", func(t *testing.T) {
		// No group means no live fetch; months 3+ have nothing stored globally
		assert.Equal(t, 1.0, flows.seasonal.ResolveIndex(ctx, nil, 3))
	})

	t.Run("OutOfRangeMonth", func(t *testing.T) {
		assert.Equal(t, 1.0, flows.seasonal.ResolveIndex(ctx, &group.ID, 0))
		assert.Equal(t, 1.0, flows.seasonal.ResolveIndex(ctx, &group.ID, 13))
	})
}

func TestSeasonalResolveIndexFetchFailure(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := services.NewSeasonalAdjustmentClient(server.URL, 0)
	flows := newTestFlows(t, provider)

	group, err := flows.fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)

	// The failed fetch degrades to the constant default, never an error
	assert.Equal(t, 1.0, flows.seasonal.ResolveIndex(ctx, &group.ID, 6))
}

func TestSeasonalSetIndex(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)

	t.Run("CreateThenUpdate", func(t *testing.T) {
		row, err := flows.seasonal.SetIndex(ctx, "Summer", 7, &group.ID, 1.3)
		require.NoError(t, err)
		assert.Equal(t, 1.3, row.IndexValue)

		updated, err := flows.seasonal.SetIndex(ctx, "", 7, &group.ID, 1.5)
		require.NoError(t, err)
		assert.Equal(t, row.ID, updated.ID)
		assert.Equal(t, 1.5, updated.IndexValue)
		assert.Equal(t, "Summer", updated.Name)
	})

	t.Run("RejectsBadInput", func(t *testing.T) {
		_, err := flows.seasonal.SetIndex(ctx, "x", 0, nil, 1.0)
		assert.ErrorIs(t, err, ErrInvalidMonth)

		_, err = flows.seasonal.SetIndex(ctx, "x", 5, nil, 0)
		assert.ErrorIs(t, err, ErrInvalidIndexValue)
	})
}

func TestSeasonalProbeIndex(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	group, err := flows.fixtures.CreateTestGroup("Tango")
	require.NoError(t, err)
	station, err := flows.fixtures.CreateTestStation("Radio Uno", group.ID)
	require.NoError(t, err)

	_, err = flows.fixtures.CreateTestSeasonalIndex(4, &group.ID, 1.2)
	require.NoError(t, err)

	value, err := flows.seasonal.ProbeIndex(ctx, station.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 1.2, value)

	_, err = flows.seasonal.ProbeIndex(ctx, station.ID+100, 4)
	assert.ErrorIs(t, err, ErrStationNotFound)
}
