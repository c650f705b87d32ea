package businessflow

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/utils"
	"github.com/xuri/excelize/v2"
)

// dayAbbrevs are the Lithuanian day-of-week abbreviations, Monday first
var dayAbbrevs = [7]string{"Pr", "An", "Tr", "Ke", "Pe", "Se", "Sk"}

// ExportFlow renders plans into spreadsheet workbooks
type ExportFlow interface {
	ExportPlan(ctx context.Context, planID uint) (string, []byte, error)
}

// ExportFlowImpl implements the spreadsheet export flow. The layout mirrors
// the agency's reference workbook: an info block, a three-row column header,
// one row per station/slot/weekend group and one calendar column per date.
type ExportFlowImpl struct {
	plans PlanFlow
}

// NewExportFlow creates a new export flow
func NewExportFlow(plans PlanFlow) ExportFlow {
	return &ExportFlowImpl{plans: plans}
}

// spotGroup is one output row: a station slot with per-date spot counts. The
// unit metrics come from the group's first spot.
type spotGroup struct {
	stationName   string
	timeSlot      string
	weekday       string
	spotsByDate   map[string]int
	totalSpots    int
	grp           float64
	trp           float64
	affinity      float64
	basePrice     float64
	seasonalIndex float64
	finalPrice    float64
	pricePerTRP   float64
}

// ExportPlan renders the plan into an xlsx workbook and returns the download
// filename alongside the file bytes.
func (f *ExportFlowImpl) ExportPlan(ctx context.Context, planID uint) (string, []byte, error) {
	plan, err := f.plans.GetPlan(ctx, planID)
	if err != nil {
		return "", nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := sheetNameFor(plan)
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	headerStyle, _ := xl.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Border:    []excelize.Border{{Type: "left", Style: 1}, {Type: "right", Style: 1}, {Type: "top", Style: 1}, {Type: "bottom", Style: 1}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	infoStyle, _ := xl.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	dateStyle, _ := xl.NewStyle(&excelize.Style{CustomNumFmt: utils.ToPtr("yyyy.mm.dd")})
	moneyStyle, _ := xl.NewStyle(&excelize.Style{CustomNumFmt: utils.ToPtr("€#,##0.00")})
	percentStyle, _ := xl.NewStyle(&excelize.Style{CustomNumFmt: utils.ToPtr("0.00%")})
	numberStyle, _ := xl.NewStyle(&excelize.Style{CustomNumFmt: utils.ToPtr("#,##0.00")})

	setInfo := func(cell, label string) {
		_ = xl.SetCellValue(sheet, cell, label)
		_ = xl.SetCellStyle(sheet, cell, cell, infoStyle)
	}

	// Info block
	setInfo("A1", "Agentūra:")
	_ = xl.SetCellValue(sheet, "B1", "BPN LT")
	setInfo("A2", "Klientas:")
	_ = xl.SetCellValue(sheet, "B2", coalesce(cleanText(derefStr(plan.ClientBrandName)), "CLIENT"))
	setInfo("H2", "Tikslinė grupė")
	_ = xl.SetCellValue(sheet, "I2", cleanText(plan.TargetAudience))
	setInfo("A3", "Produktas:")
	_ = xl.SetCellValue(sheet, "B3", cleanText(coalesce(derefStr(plan.ProjectName), plan.CampaignName)))
	setInfo("H3", "TG dydis ('000):")
	_ = xl.SetCellValue(sheet, "I3", "1059.49")
	setInfo("A4", "Kampanija:")
	_ = xl.SetCellValue(sheet, "B4", cleanText(plan.CampaignName))
	setInfo("H4", "TG dalis (%):")
	_ = xl.SetCellValue(sheet, "I4", "60.2%")
	setInfo("P4", "Klipo trukmė (-s):")
	setInfo("A5", "Laikotarpis:")
	_ = xl.SetCellValue(sheet, "B5", fmt.Sprintf("%s-%s",
		plan.StartDate.Format("2006.01.02"), plan.EndDate.Format("01.02")))
	setInfo("H5", "TG imtis:")
	_ = xl.SetCellValue(sheet, "I5", "1759.35")

	clipDuration := plan.DefaultClipDuration()
	_ = xl.SetCellValue(sheet, "P5", clipDuration)

	setInfo("A6", "Šalis:")
	_ = xl.SetCellValue(sheet, "B6", "Lietuva")
	setInfo("A7", "Savaitės pradžios data")
	_ = xl.SetCellValue(sheet, "B7", plan.StartDate)
	_ = xl.SetCellStyle(sheet, "B7", "B7", dateStyle)

	// Three column-header rows (rows 10-12)
	headerRows := [3][]string{
		{"Kanalas", "Laikas", "Savaitės", "Spec.", "Klipų", "Klipo ",
			"GRP", "TRP", "Viso", "Viso", "Affinity", "1 sec.",
			"Įkainis", "Antkainis", "Antkainis", "Klipo", "Kaina",
			"Viso kaina", "Viso kaina", "Nuolaida"},
		{"", "", "diena", "pozicija", "skaičius", "trukmė",
			"", "", "GRP", "TRP", "", "TRP",
			"(EUR)", "", "padidintas *", "kaina", "po nuolaidos",
			"iki nuolaidos", "po nuolaidos", "(%)"},
		{"", "", "", "", "", "",
			"", "", "", "", "", "kaina",
			"", "", "", "(EUR)", "(EUR)",
			"(EUR)", "(EUR)", ""},
	}
	for i, headers := range headerRows {
		for col, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 10+i)
			_ = xl.SetCellValue(sheet, cell, cleanText(header))
			_ = xl.SetCellStyle(sheet, cell, cell, headerStyle)
		}
	}

	// Calendar header: one column per plan date, grouped into numbered weeks
	const calendarStart = 21
	dateCols := make(map[string]int)
	col := calendarStart
	weekNum := 31
	daysInWeek := 0
	for cur := utils.DateOnly(plan.StartDate); !cur.After(utils.DateOnly(plan.EndDate)); cur = cur.AddDate(0, 0, 1) {
		if daysInWeek == 0 {
			cell, _ := excelize.CoordinatesToCellName(col, 10)
			_ = xl.SetCellValue(sheet, cell, fmt.Sprintf("%d", weekNum))
			_ = xl.SetCellStyle(sheet, cell, cell, headerStyle)
			weekNum++
		}
		cell, _ := excelize.CoordinatesToCellName(col, 11)
		_ = xl.SetCellValue(sheet, cell, dayAbbrevs[mondayIndexed(cur.Weekday())])
		_ = xl.SetCellStyle(sheet, cell, cell, headerStyle)
		cell, _ = excelize.CoordinatesToCellName(col, 12)
		_ = xl.SetCellValue(sheet, cell, cur.Day())
		_ = xl.SetCellStyle(sheet, cell, cell, headerStyle)

		dateCols[utils.FormatDate(cur)] = col
		col++
		daysInWeek = (daysInWeek + 1) % 7
	}

	groups, order := groupSpots(plan)

	row := 13
	for _, key := range order {
		group := groups[key]
		if group.totalSpots <= 0 {
			continue
		}

		set := func(colIdx int, value any, style int) {
			cell, _ := excelize.CoordinatesToCellName(colIdx, row)
			_ = xl.SetCellValue(sheet, cell, value)
			if style != 0 {
				_ = xl.SetCellStyle(sheet, cell, cell, style)
			}
		}

		grossUnit := group.basePrice * group.seasonalIndex
		set(1, group.stationName, 0)
		set(2, group.timeSlot, 0)
		set(3, group.weekday, 0)
		set(4, "0", 0)
		set(5, group.totalSpots, 0)
		set(6, clipDuration, 0)
		set(7, group.grp, numberStyle)
		set(8, group.trp, numberStyle)
		set(9, group.grp*float64(group.totalSpots), numberStyle)
		set(10, group.trp*float64(group.totalSpots), numberStyle)
		set(11, group.affinity, numberStyle)
		set(12, group.pricePerTRP, numberStyle)
		set(13, group.basePrice, moneyStyle)
		set(14, group.seasonalIndex, numberStyle)
		set(15, grossUnit, moneyStyle)
		set(16, grossUnit, moneyStyle)
		set(17, group.finalPrice, moneyStyle)
		set(18, grossUnit*float64(group.totalSpots), moneyStyle)
		set(19, group.finalPrice*float64(group.totalSpots), moneyStyle)

		discountPct := 0.0
		if grossUnit > 0 {
			discountPct = 1 - group.finalPrice/grossUnit
		}
		set(20, discountPct, percentStyle)

		for date, count := range group.spotsByDate {
			if dateCol, ok := dateCols[date]; ok && count > 0 {
				set(dateCol, count, 0)
			}
		}

		row++
	}

	_ = xl.SetColWidth(sheet, "A", "A", 20)
	_ = xl.SetColWidth(sheet, "B", "B", 12)
	_ = xl.SetColWidth(sheet, "C", "C", 8)
	_ = xl.SetColWidth(sheet, "D", "F", 8)
	_ = xl.SetColWidth(sheet, "G", "L", 12)
	_ = xl.SetColWidth(sheet, "M", "T", 15)
	if col > calendarStart {
		first, _ := excelize.ColumnNumberToName(calendarStart)
		last, _ := excelize.ColumnNumberToName(col - 1)
		_ = xl.SetColWidth(sheet, first, last, 12)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_FAILED", "failed to write workbook", err)
	}

	filename := fmt.Sprintf("radio_plan_%s_%s.xlsx", filenameSafe(plan.CampaignName), time.Now().Format("20060102"))
	return filename, buf.Bytes(), nil
}

// groupSpots folds the plan's positive-count spots into one group per
// station/slot/weekend, preserving first-seen order. This is the data
// contract the workbook rows render.
func groupSpots(plan *models.Plan) (map[string]*spotGroup, []string) {
	groups := make(map[string]*spotGroup)
	order := make([]string, 0)

	spots := make([]*models.Spot, 0, len(plan.Spots))
	for i := range plan.Spots {
		if plan.Spots[i].SpotCount > 0 {
			spots = append(spots, &plan.Spots[i])
		}
	}
	sort.SliceStable(spots, func(i, j int) bool {
		if spots[i].StationID != spots[j].StationID {
			return spots[i].StationID < spots[j].StationID
		}
		return spots[i].TimeSlot < spots[j].TimeSlot
	})

	for _, spot := range spots {
		key := fmt.Sprintf("%d|%s|%t", spot.StationID, spot.TimeSlot, spot.IsWeekendRow)
		group, ok := groups[key]
		if !ok {
			weekday := "I-V"
			if spot.IsWeekendRow {
				weekday = "VI-VII"
			}
			stationName := ""
			if spot.Station != nil {
				stationName = cleanText(spot.Station.Name)
			}
			group = &spotGroup{
				stationName:   stationName,
				timeSlot:      cleanText(spot.TimeSlot),
				weekday:       weekday,
				spotsByDate:   make(map[string]int),
				grp:           spot.GRP,
				trp:           spot.TRP,
				affinity:      spot.Affinity,
				basePrice:     spot.BasePrice,
				seasonalIndex: spot.SeasonalIndex,
				finalPrice:    spot.FinalPrice,
				pricePerTRP:   spot.PricePerTRP,
			}
			groups[key] = group
			order = append(order, key)
		}
		group.spotsByDate[utils.FormatDate(spot.Date)] = spot.SpotCount
		group.totalSpots += spot.SpotCount
	}

	return groups, order
}

// sheetNameFor derives a worksheet name from the campaign name
func sheetNameFor(plan *models.Plan) string {
	name := cleanText(plan.CampaignName)
	if name == "" {
		name = "Plan"
	}
	runes := []rune(name)
	if len(runes) > 25 {
		name = string(runes[:25])
	}
	return name + "_A"
}

// mondayIndexed converts time.Weekday (Sunday=0) to a Monday-first index
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// cleanText strips newlines and collapses whitespace
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\n", "")
	text = strings.ReplaceAll(text, "\r", "")
	return strings.Join(strings.Fields(text), " ")
}

// filenameSafe keeps only characters safe for a download filename
func filenameSafe(name string) string {
	name = cleanText(name)
	if name == "" {
		return "plan"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
