package businessflow

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/bpnlt/radioplan/models"
	"github.com/bpnlt/radioplan/repository"
	"github.com/bpnlt/radioplan/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportFlow bulk-loads prices and ratings from spreadsheet uploads
type ImportFlow interface {
	ImportPrices(ctx context.Context, file io.Reader) (*ImportSummary, error)
	ImportRatings(ctx context.Context, file io.Reader) (*ImportSummary, error)
}

// ImportSummary reports what a spreadsheet import did
type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// ImportFlowImpl implements the spreadsheet import flow. Sheets are expected
// to carry one header row with at least Station and the value columns; rows
// missing them are skipped, not fatal.
type ImportFlowImpl struct {
	groupRepo     repository.GroupRepository
	stationRepo   repository.StationRepository
	slotPriceRepo repository.TimeSlotPriceRepository
	ratingRepo    repository.RatingRepository
	db            *gorm.DB
}

// NewImportFlow creates a new import flow
func NewImportFlow(
	groupRepo repository.GroupRepository,
	stationRepo repository.StationRepository,
	slotPriceRepo repository.TimeSlotPriceRepository,
	ratingRepo repository.RatingRepository,
	db *gorm.DB,
) ImportFlow {
	return &ImportFlowImpl{
		groupRepo:     groupRepo,
		stationRepo:   stationRepo,
		slotPriceRepo: slotPriceRepo,
		ratingRepo:    ratingRepo,
		db:            db,
	}
}

// ImportPrices loads flat time-slot prices. Unknown stations are created
// under the first group.
func (f *ImportFlowImpl) ImportPrices(ctx context.Context, file io.Reader) (*ImportSummary, error) {
	rows, err := readSheets(file)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		for _, row := range rows {
			stationName := row["station"]
			priceRaw := row["price"]
			if stationName == "" || priceRaw == "" {
				summary.Skipped++
				continue
			}
			price, err := strconv.ParseFloat(priceRaw, 64)
			if err != nil || price < 0 {
				summary.Skipped++
				continue
			}

			station, err := f.findOrCreateStation(txCtx, stationName)
			if err != nil {
				return err
			}

			timeSlot := row["time"]
			if timeSlot == "" {
				timeSlot = utils.TimeSlots()[0]
			}
			isWeekend := parseBool(row["weekend"])

			if _, err := f.slotPriceRepo.Upsert(txCtx, station.ID, timeSlot, isWeekend, price); err != nil {
				return NewBusinessError("SLOT_PRICE_SAVE_FAILED", "failed to save slot price", err)
			}
			summary.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// ImportRatings loads GRP/TRP ratings. Rows naming unknown stations are
// skipped with a warning rather than creating stations implicitly.
func (f *ImportFlowImpl) ImportRatings(ctx context.Context, file io.Reader) (*ImportSummary, error) {
	rows, err := readSheets(file)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		for _, row := range rows {
			stationName := row["station"]
			if stationName == "" {
				summary.Skipped++
				continue
			}

			station, err := f.stationRepo.ByName(txCtx, stationName)
			if err != nil {
				return NewBusinessError("STATION_LOOKUP_FAILED", "failed to look up station", err)
			}
			if station == nil {
				summary.Skipped++
				summary.Warnings = append(summary.Warnings, "unknown station "+stationName)
				continue
			}

			timeSlot := row["time"]
			if timeSlot == "" {
				timeSlot = utils.TimeSlots()[0]
			}
			audience := row["audience"]
			if audience == "" {
				audience = utils.DefaultTargetAudience
			}
			grp := parseFloat(row["grp"])
			trp := parseFloat(row["trp"])
			isWeekend := parseBool(row["weekend"])

			if _, err := f.ratingRepo.Upsert(txCtx, station.ID, timeSlot, audience, isWeekend, grp, trp); err != nil {
				return NewBusinessError("RATING_SAVE_FAILED", "failed to save rating", err)
			}
			summary.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func (f *ImportFlowImpl) findOrCreateStation(ctx context.Context, name string) (*models.Station, error) {
	station, err := f.stationRepo.ByName(ctx, name)
	if err != nil {
		return nil, NewBusinessError("STATION_LOOKUP_FAILED", "failed to look up station", err)
	}
	if station != nil {
		return station, nil
	}

	groups, err := f.groupRepo.ByFilter(ctx, models.GroupFilter{}, "id ASC", 1, 0)
	if err != nil || len(groups) == 0 {
		return nil, NewBusinessError("GROUP_LOOKUP_FAILED", "no group available for imported station", err)
	}

	station = &models.Station{Name: name, GroupID: groups[0].ID}
	if err := f.stationRepo.Save(ctx, station); err != nil {
		return nil, NewBusinessError("STATION_SAVE_FAILED", "failed to save station", err)
	}
	return station, nil
}

// readSheets flattens every sheet of the workbook into header-keyed rows.
// Header names are matched case-insensitively.
func readSheets(file io.Reader) ([]map[string]string, error) {
	xl, err := excelize.OpenReader(file)
	if err != nil {
		return nil, NewBusinessError("IMPORT_FILE_INVALID", "failed to open workbook", ErrImportFileInvalid)
	}
	defer func() { _ = xl.Close() }()

	var out []map[string]string
	for _, sheet := range xl.GetSheetList() {
		rows, err := xl.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}

		headers := make([]string, len(rows[0]))
		for i, h := range rows[0] {
			headers[i] = strings.ToLower(strings.TrimSpace(h))
		}

		for _, raw := range rows[1:] {
			row := make(map[string]string, len(headers))
			for i, value := range raw {
				if i < len(headers) && headers[i] != "" {
					row[headers[i]] = strings.TrimSpace(value)
				}
			}
			if len(row) > 0 {
				out = append(out, row)
			}
		}
	}

	return out, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
