// Package parsers turns bulk collection report files into collection events.
// Cooperatives upload a day's pickups as a spreadsheet; each row is one item
// of one pickup, and rows for the same user and date merge into one event.
package parsers

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// reportNamespace seeds deterministic event IDs so re-uploading the same
// report yields the same IDs and the applied-events ledger absorbs the
// duplicates.
var reportNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// XLSXParser parses XLSX collection report files.
type XLSXParser struct{}

// NewXLSXParser creates a new XLSX collection report parser.
func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

type reportColumns struct {
	user      int
	wasteType int
	quantity  int
	weight    int // -1 when the report has no weight column
	date      int // -1 when the report has no date column
}

// Parse reads an XLSX report and returns one collection event per user per
// collection date, in sheet order.
func (p *XLSXParser) Parse(data []byte) ([]scoretypes.CollectionEvent, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}

	sheetName := sheets[0]
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	cols, err := findReportColumns(rows[0])
	if err != nil {
		return nil, err
	}

	// Keyed by user + date; order preserved for deterministic output.
	events := make(map[string]*scoretypes.CollectionEvent)
	var order []string

	for i, row := range rows[1:] {
		line := i + 2
		if isEmptyRow(row) {
			continue
		}

		userID := strings.TrimSpace(cell(row, cols.user))
		if userID == "" {
			return nil, fmt.Errorf("missing user at line %d", line)
		}

		wasteType := strings.ToLower(strings.TrimSpace(cell(row, cols.wasteType)))
		if wasteType == "" {
			return nil, fmt.Errorf("missing waste type at line %d", line)
		}

		quantity, err := parseQuantity(cell(row, cols.quantity))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity at line %d: %w", line, err)
		}

		var weight *float64
		if cols.weight >= 0 {
			weight, err = parseWeight(cell(row, cols.weight))
			if err != nil {
				return nil, fmt.Errorf("invalid weight at line %d: %w", line, err)
			}
		}

		occurredAt := time.Time{}
		dateKey := ""
		if cols.date >= 0 {
			occurredAt, err = parseReportDate(cell(row, cols.date))
			if err != nil {
				return nil, fmt.Errorf("invalid date at line %d: %w", line, err)
			}
			dateKey = occurredAt.Format("2006-01-02")
		}

		key := userID + "|" + dateKey
		event, ok := events[key]
		if !ok {
			event = &scoretypes.CollectionEvent{
				ID:         sharedtypes.CollectionEventID(uuid.NewSHA1(reportNamespace, []byte(key))),
				UserID:     sharedtypes.UserID(userID),
				OccurredAt: occurredAt,
			}
			events[key] = event
			order = append(order, key)
		}

		event.Items = append(event.Items, scoretypes.CollectionItem{
			WasteTypeID: sharedtypes.WasteTypeID(wasteType),
			Quantity:    quantity,
			WeightKg:    weight,
		})
	}

	if len(order) == 0 {
		return nil, fmt.Errorf("no collection rows found in XLSX")
	}

	result := make([]scoretypes.CollectionEvent, 0, len(order))
	for _, key := range order {
		result = append(result, *events[key])
	}
	return result, nil
}

// findReportColumns locates the required columns in the header row by name,
// case-insensitively. Weight and date columns are optional.
func findReportColumns(header []string) (reportColumns, error) {
	cols := reportColumns{user: -1, wasteType: -1, quantity: -1, weight: -1, date: -1}

	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case name == "user" || name == "user id" || name == "user_id":
			cols.user = i
		case strings.HasPrefix(name, "waste"):
			cols.wasteType = i
		case name == "quantity" || name == "qty" || name == "items":
			cols.quantity = i
		case strings.HasPrefix(name, "weight"):
			cols.weight = i
		case name == "date" || strings.HasPrefix(name, "collected"):
			cols.date = i
		}
	}

	if cols.user < 0 {
		return cols, fmt.Errorf("report is missing a user column")
	}
	if cols.wasteType < 0 {
		return cols, fmt.Errorf("report is missing a waste type column")
	}
	if cols.quantity < 0 {
		return cols, fmt.Errorf("report is missing a quantity column")
	}
	return cols, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseQuantity(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	q, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric quantity: %q", raw)
	}
	if q <= 0 {
		return 0, fmt.Errorf("quantity must be positive: %v", q)
	}
	return q, nil
}

// parseWeight returns nil for an empty or dashed cell, which means "not
// weighed". The progress tracker falls back to the waste type's average
// weight in that case.
func parseWeight(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return nil, nil
	}
	w, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("non-numeric weight: %q", raw)
	}
	if w < 0 {
		return nil, fmt.Errorf("negative weight: %v", w)
	}
	return &w, nil
}

// parseReportDate accepts the formats cooperatives actually send.
func parseReportDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "01-02-06", "2006/01/02", "02/01/2006"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", raw)
}
