package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar date format used for acq_date and period bounds.
const DateLayout = "2006-01-02"

// TimestampLayout is the format of collection timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// ExpectedColumns is present on every serialized record, null when missing upstream.
var ExpectedColumns = []string{
	"latitude", "longitude", "bright_ti4", "acq_date", "acq_time",
	"confidence", "frp", "daynight", "semana_ano", "mes_ano",
}

// FireRecord is one VIIRS thermal anomaly detection plus derived calendar fields.
type FireRecord struct {
	Latitude   *float64
	Longitude  *float64
	BrightTI4  *float64
	AcqDate    time.Time
	AcqTime    *string
	Confidence *string
	FRP        *float64
	DayNight   *string

	ISOWeek     int
	MonthLabel  string
	WeekdayName string
	CollectedAt time.Time

	// Extra keeps every upstream column without a named field above.
	Extra map[string]any
}

// Columns flattens the record into upstream column names plus derived fields.
func (r FireRecord) Columns() map[string]any {
	cols := make(map[string]any, len(r.Extra)+len(ExpectedColumns)+2)
	for k, v := range r.Extra {
		cols[k] = v
	}

	cols["latitude"] = floatOrNil(r.Latitude)
	cols["longitude"] = floatOrNil(r.Longitude)
	cols["bright_ti4"] = floatOrNil(r.BrightTI4)
	cols["acq_time"] = stringOrNil(r.AcqTime)
	cols["confidence"] = stringOrNil(r.Confidence)
	cols["frp"] = floatOrNil(r.FRP)
	cols["daynight"] = stringOrNil(r.DayNight)

	if !r.AcqDate.IsZero() {
		cols["acq_date"] = r.AcqDate.Format(DateLayout)
		cols["semana_ano"] = r.ISOWeek
		cols["mes_ano"] = r.MonthLabel
		cols["dia_semana"] = r.WeekdayName
	}
	if !r.CollectedAt.IsZero() {
		cols["data_coleta"] = r.CollectedAt.Format(TimestampLayout)
	}

	for _, c := range ExpectedColumns {
		if _, ok := cols[c]; !ok {
			cols[c] = nil
		}
	}
	return cols
}

// MarshalJSON encodes the record as a flat object keyed by column name.
func (r FireRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Columns())
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringOrNil(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// Metadata describes a /fire_data_brazil response.
type Metadata struct {
	TotalRecords        int     `json:"total_records"`
	PeriodStart         *string `json:"period_start"`
	PeriodEnd           *string `json:"period_end"`
	RequestedDays       int     `json:"requested_days"`
	CollectionTimestamp string  `json:"collection_timestamp"`
	Source              string  `json:"source"`
	Coordinates         string  `json:"coordinates"`
}

// FireDataResponse is the envelope returned by /fire_data_brazil.
type FireDataResponse struct {
	Metadata Metadata     `json:"metadata"`
	Data     []FireRecord `json:"data"`
}

// OverallSummary aggregates a whole record set.
type OverallSummary struct {
	TotalFires        int      `json:"total_fires"`
	PeriodStart       string   `json:"period_start"`
	PeriodEnd         string   `json:"period_end"`
	AvgBrightness     *float64 `json:"avg_brightness"`
	AvgRadiativePower *float64 `json:"avg_radiative_power"`
}

// Summary is the body of /fire_data_brazil/summary. OverallSummary is nil
// when there is no data so it encodes as an empty object.
type Summary struct {
	OverallSummary *OverallSummary `json:"overall_summary"`
	ByDay          map[string]int  `json:"by_day"`
	ByWeek         map[string]int  `json:"by_week"`
}

// MarshalJSON keeps all three fields present when the summary is empty.
func (s Summary) MarshalJSON() ([]byte, error) {
	var overall any = struct{}{}
	if s.OverallSummary != nil {
		overall = s.OverallSummary
	}
	byDay := s.ByDay
	if byDay == nil {
		byDay = map[string]int{}
	}
	byWeek := s.ByWeek
	if byWeek == nil {
		byWeek = map[string]int{}
	}
	return json.Marshal(struct {
		OverallSummary any            `json:"overall_summary"`
		ByDay          map[string]int `json:"by_day"`
		ByWeek         map[string]int `json:"by_week"`
	}{overall, byDay, byWeek})
}
