package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bpnlt/radioplan/app/dto"
	"github.com/bpnlt/radioplan/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportPlan(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)
	plan, station := planWithCatalog(t, flows)

	for _, date := range []string{"2025-03-04", "2025-03-05"} {
		_, err := flows.spots.UpsertSpot(ctx, &dto.UpsertSpotRequest{
			PlanID:    plan.ID,
			StationID: station.ID,
			TimeSlot:  "08:00-08:30",
			Date:      date,
			SpotCount: 2,
		})
		require.NoError(t, err)
	}

	filename, content, err := flows.export.ExportPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("radio_plan_Spring_%s.xlsx", time.Now().Format("20060102")), filename)
	require.NotEmpty(t, content)

	xl, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	assert.Equal(t, "Spring_A", sheet)

	get := func(cell string) string {
		value, err := xl.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return value
	}

	// Info block
	assert.Equal(t, "Agentūra:", get("A1"))
	assert.Equal(t, "BPN LT", get("B1"))
	assert.Equal(t, "Spring", get("B4"))
	assert.Equal(t, "2025.03.03-03.16", get("B5"))
	assert.Equal(t, "Lietuva", get("B6"))

	// Header rows
	assert.Equal(t, "Kanalas", get("A10"))
	assert.Equal(t, "Laikas", get("B10"))

	// First data row holds the morning weekday group
	assert.Equal(t, "Radio Uno", get("A13"))
	assert.Equal(t, "08:00-08:30", get("B13"))
	assert.Equal(t, "I-V", get("C13"))
	assert.Equal(t, "4", get("E13"), "total spots across the period")

	// Calendar columns start at U (column 21); 2025-03-03 is the first date
	assert.Equal(t, "Pr", get("U11"))
	assert.Equal(t, "3", get("U12"))
	// Tuesday and Wednesday carry 2 spots each
	assert.Equal(t, "2", get("V13"))
	assert.Equal(t, "2", get("W13"))
	assert.Equal(t, "", get("U13"))
}

func TestExportPlanUnknown(t *testing.T) {
	ctx := context.Background()
	flows := newTestFlows(t, nil)

	_, _, err := flows.export.ExportPlan(ctx, 12345)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestFilenameSafe(t *testing.T) {
	assert.Equal(t, "Spring push 2025", filenameSafe("Spring push 2025"))
	assert.Equal(t, "ab", filenameSafe("a/b:*?"))
	assert.Equal(t, "plan", filenameSafe(""))
	assert.Equal(t, "Vasarosakcija", filenameSafe("Vasaros\nakcija"))
}

func TestSheetNameFor(t *testing.T) {
	long := "An exceptionally long campaign name well over the limit"
	name := sheetNameFor(&models.Plan{CampaignName: long})
	assert.Len(t, []rune(name), 27)
	assert.Equal(t, "Plan_A", sheetNameFor(&models.Plan{}))
}
