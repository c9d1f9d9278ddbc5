package fires

import (
	"strconv"

	"github.com/02loveslollipop/fire-data-brazil/services/api/models"
)

// Period returns the earliest and latest acquisition dates as YYYY-MM-DD.
// Both are nil for an empty slice.
func Period(records []models.FireRecord) (start, end *string) {
	if len(records) == 0 {
		return nil, nil
	}
	minDate, maxDate := records[0].AcqDate, records[0].AcqDate
	for _, r := range records[1:] {
		if r.AcqDate.Before(minDate) {
			minDate = r.AcqDate
		}
		if r.AcqDate.After(maxDate) {
			maxDate = r.AcqDate
		}
	}
	s := minDate.Format(models.DateLayout)
	e := maxDate.Format(models.DateLayout)
	return &s, &e
}

// Summarize aggregates records into overall figures and per-day and
// per-ISO-week counts. An empty input gives an empty Summary.
func Summarize(records []models.FireRecord) models.Summary {
	if len(records) == 0 {
		return models.Summary{}
	}

	byDay := make(map[string]int)
	byWeek := make(map[string]int)
	var brightness, frp mean
	for _, r := range records {
		byDay[r.AcqDate.Format(models.DateLayout)]++
		byWeek[strconv.Itoa(r.ISOWeek)]++
		brightness.add(r.BrightTI4)
		frp.add(r.FRP)
	}

	start, end := Period(records)
	return models.Summary{
		OverallSummary: &models.OverallSummary{
			TotalFires:        len(records),
			PeriodStart:       *start,
			PeriodEnd:         *end,
			AvgBrightness:     brightness.value(),
			AvgRadiativePower: frp.value(),
		},
		ByDay:  byDay,
		ByWeek: byWeek,
	}
}

// mean skips missing values.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}
