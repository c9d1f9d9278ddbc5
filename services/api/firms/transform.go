package firms

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/02loveslollipop/fire-data-brazil/services/api/models"
)

const acqDateColumn = "acq_date"

var acqDateLayouts = []string{
	models.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// Transform parses a FIRMS CSV body into records sorted by acquisition date,
// newest first. Columns are matched by header name. A body with a header and
// no rows yields ErrNoData; a missing or malformed acq_date yields a parse error.
func Transform(raw string, now time.Time) ([]models.FireRecord, error) {
	header, rows, err := readTable(raw)
	if err != nil {
		return nil, &FeedError{Kind: KindParseError, Err: err}
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	dateIdx := -1
	for i, name := range header {
		if name == acqDateColumn {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return nil, &FeedError{Kind: KindParseError, Err: fmt.Errorf("missing %s column", acqDateColumn)}
	}

	collectedAt := now.Truncate(time.Second)
	records := make([]models.FireRecord, 0, len(rows))
	for n, row := range rows {
		date, err := parseAcqDate(field(row, dateIdx))
		if err != nil {
			return nil, &FeedError{Kind: KindParseError, Err: fmt.Errorf("row %d: %w", n+1, err)}
		}
		rec := buildRecord(header, row)
		rec.AcqDate = date
		deriveCalendar(&rec, collectedAt)
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].AcqDate.After(records[j].AcqDate)
	})
	return records, nil
}

func readTable(raw string) ([]string, [][]string, error) {
	// FIRMS exports occasionally start with a UTF-8 byte order mark.
	decoded := transform.NewReader(strings.NewReader(raw), unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	r := csv.NewReader(decoded)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	return header, rows, nil
}

func buildRecord(header, row []string) models.FireRecord {
	var rec models.FireRecord
	for i, name := range header {
		val := field(row, i)
		switch name {
		case acqDateColumn:
		case "latitude":
			rec.Latitude = floatPtr(val)
		case "longitude":
			rec.Longitude = floatPtr(val)
		case "bright_ti4":
			rec.BrightTI4 = floatPtr(val)
		case "acq_time":
			rec.AcqTime = stringPtr(val)
		case "confidence":
			rec.Confidence = stringPtr(val)
		case "frp":
			rec.FRP = floatPtr(val)
		case "daynight":
			rec.DayNight = stringPtr(val)
		default:
			if name == "" {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]any)
			}
			rec.Extra[name] = scalar(val)
		}
	}
	return rec
}

func deriveCalendar(rec *models.FireRecord, collectedAt time.Time) {
	_, week := rec.AcqDate.ISOWeek()
	rec.ISOWeek = week
	rec.MonthLabel = rec.AcqDate.Format("2006-01")
	rec.WeekdayName = rec.AcqDate.Weekday().String()
	rec.CollectedAt = collectedAt
}

func parseAcqDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty %s", acqDateColumn)
	}
	for _, layout := range acqDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", acqDateColumn, v)
}

func field(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func floatPtr(v string) *float64 {
	if v == "" {
		return nil
	}
	f, ok := finite(v)
	if !ok {
		return nil
	}
	return &f
}

func stringPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// scalar decodes an untyped cell: blank is nil, numbers are float64, anything else stays text.
func scalar(v string) any {
	if v == "" {
		return nil
	}
	if f, ok := finite(v); ok {
		return f
	}
	return v
}

// finite parses v as a float, rejecting NaN and infinities which JSON cannot carry.
func finite(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
