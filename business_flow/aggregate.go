package businessflow

import (
	"sort"

	"github.com/bpnlt/radioplan/app/dto"
	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/utils"
)

// AggregatePlan folds a plan's spots into per-slot and grand totals. Slots
// with no spots are omitted; every date in the plan period is listed even
// when nothing airs on it, since the calendar renders empty days too.
func AggregatePlan(plan *models.Plan) *dto.PlanAggregateResponse {
	response := &dto.PlanAggregateResponse{
		PlanID:     plan.ID,
		Dates:      planDates(plan),
		SlotGroups: []dto.SlotGroupTotal{},
	}

	type groupKey struct {
		stationID uint
		timeSlot  string
		isWeekend bool
	}
	groups := make(map[groupKey]*dto.SlotGroupTotal)
	dateTotals := make(map[groupKey]map[string]*dto.SlotDateTotal)
	order := make([]groupKey, 0)

	for i := range plan.Spots {
		spot := &plan.Spots[i]
		key := groupKey{spot.StationID, spot.TimeSlot, spot.IsWeekendRow}

		group, ok := groups[key]
		if !ok {
			group = &dto.SlotGroupTotal{
				StationID: spot.StationID,
				TimeSlot:  spot.TimeSlot,
				IsWeekend: spot.IsWeekendRow,
			}
			if spot.Station != nil {
				group.StationName = spot.Station.Name
			}
			groups[key] = group
			dateTotals[key] = make(map[string]*dto.SlotDateTotal)
			order = append(order, key)
		}

		group.SpotCount += spot.SpotCount
		group.GRP += spot.GRP
		group.TRP += spot.TRP
		group.FinalPrice += spot.FinalPrice

		date := utils.FormatDate(spot.Date)
		dt, ok := dateTotals[key][date]
		if !ok {
			dt = &dto.SlotDateTotal{Date: date}
			dateTotals[key][date] = dt
		}
		dt.SpotCount += spot.SpotCount
		dt.GRP += spot.GRP
		dt.TRP += spot.TRP
		dt.FinalPrice += spot.FinalPrice

		response.Totals.SpotCount += spot.SpotCount
		response.Totals.GRP += spot.GRP
		response.Totals.TRP += spot.TRP
		response.Totals.FinalPrice += spot.FinalPrice
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.stationID != b.stationID {
			return a.stationID < b.stationID
		}
		if a.timeSlot != b.timeSlot {
			return a.timeSlot < b.timeSlot
		}
		return !a.isWeekend && b.isWeekend
	})

	for _, key := range order {
		group := groups[key]
		dates := make([]string, 0, len(dateTotals[key]))
		for date := range dateTotals[key] {
			dates = append(dates, date)
		}
		sort.Strings(dates)
		for _, date := range dates {
			group.ByDate = append(group.ByDate, *dateTotals[key][date])
		}
		response.SlotGroups = append(response.SlotGroups, *group)
	}

	return response
}

// planDates lists every date in the plan's inclusive period
func planDates(plan *models.Plan) []string {
	dates := make([]string, 0)
	cur := utils.DateOnly(plan.StartDate)
	end := utils.DateOnly(plan.EndDate)
	for !cur.After(end) {
		dates = append(dates, utils.FormatDate(cur))
		cur = cur.AddDate(0, 0, 1)
	}
	return dates
}
