package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ColumnSummary is the detailed per-column report.
type ColumnSummary struct {
	Name              string  `json:"column_name"`
	Kind              Kind    `json:"dtype"`
	TotalValues       int     `json:"total_values"`
	MissingValues     int     `json:"missing_values"`
	MissingPercentage float64 `json:"missing_percentage"`
	UniqueValues      int     `json:"unique_values"`

	// Numeric populated only for numeric columns.
	Numeric *NumericStats `json:"numeric,omitempty"`

	// TopValues and MostCommon populated only for categorical columns.
	TopValues  []ValueCount `json:"top_values,omitempty"`
	MostCommon string       `json:"most_common,omitempty"`
}

// SummarizeColumn reports type, missingness, uniqueness, and either describe
// stats (numeric) or the top-20 value counts (categorical).
func (f *Frame) SummarizeColumn(column string) (*ColumnSummary, error) {
	kind, err := f.Kind(column)
	if err != nil {
		return nil, err
	}

	cells, err := f.Cells(column)
	if err != nil {
		return nil, err
	}

	missing := f.missingCount(column)
	summary := &ColumnSummary{
		Name:              column,
		Kind:              kind,
		TotalValues:       len(cells),
		MissingValues:     missing,
		MissingPercentage: round2(float64(missing) / float64(len(cells)) * 100),
	}

	unique := map[string]bool{}
	for _, c := range cells {
		if c != "" {
			unique[c] = true
		}
	}
	summary.UniqueValues = len(unique)

	if kind == KindNumeric {
		values, err := f.Numeric(column)
		if err != nil {
			return nil, err
		}
		if len(values) > 0 {
			stats := describe(values)
			summary.Numeric = &stats
		}
		return summary, nil
	}

	cat := f.categoricalStats(column, 20)
	summary.TopValues = cat.TopValues
	if len(cat.TopValues) > 0 {
		summary.MostCommon = cat.TopValues[0].Value
	}

	return summary, nil
}

// TimePairs returns (time, value) pairs for a datetime column against a
// numeric column, restricted to rows where both are present, sorted by time.
func (f *Frame) TimePairs(dateCol, valueCol string) ([]time.Time, []float64, error) {
	dateKind, err := f.Kind(dateCol)
	if err != nil {
		return nil, nil, err
	}
	if dateKind != KindDatetime {
		return nil, nil, fmt.Errorf("dataset: column %q is not datetime", dateCol)
	}
	valueKind, err := f.Kind(valueCol)
	if err != nil {
		return nil, nil, err
	}
	if valueKind != KindNumeric {
		return nil, nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, valueCol, valueKind)
	}

	dates, err := f.Cells(dateCol)
	if err != nil {
		return nil, nil, err
	}
	values, err := f.Cells(valueCol)
	if err != nil {
		return nil, nil, err
	}

	type pair struct {
		t time.Time
		v float64
	}
	var pairs []pair
	for i := range dates {
		if dates[i] == "" || values[i] == "" {
			continue
		}
		t, ok := parseTime(dates[i])
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(values[i], 64)
		if err != nil {
			continue
		}
		pairs = append(pairs, pair{t: t, v: v})
	}

	sort.Slice(pairs, func(a, b int) bool { return pairs[a].t.Before(pairs[b].t) })

	times := make([]time.Time, len(pairs))
	vals := make([]float64, len(pairs))
	for i, p := range pairs {
		times[i] = p.t
		vals[i] = p.v
	}
	return times, vals, nil
}

// TimeSeriesColumn is the range analysis of one datetime column.
type TimeSeriesColumn struct {
	MinDate       time.Time `json:"min_date"`
	MaxDate       time.Time `json:"max_date"`
	DateRangeDays int       `json:"date_range_days"`
	UniqueDates   int       `json:"unique_dates"`
}

// TimeSeriesReport lists every detected datetime column with its range.
type TimeSeriesReport struct {
	DatetimeColumns []string                    `json:"datetime_columns"`
	Analysis        map[string]TimeSeriesColumn `json:"analysis"`
}

// DetectTimeSeries returns nil when the frame has no datetime columns.
func (f *Frame) DetectTimeSeries() (*TimeSeriesReport, error) {
	cols := f.ColumnsOfKind(KindDatetime)
	if len(cols) == 0 {
		return nil, nil
	}

	report := &TimeSeriesReport{
		DatetimeColumns: cols,
		Analysis:        make(map[string]TimeSeriesColumn, len(cols)),
	}

	for _, col := range cols {
		times, err := f.Times(col)
		if err != nil {
			return nil, err
		}
		if len(times) == 0 {
			return nil, fmt.Errorf("dataset: datetime column %q has no values", col)
		}

		min, max := times[0], times[0]
		unique := map[time.Time]bool{}
		for _, t := range times {
			if t.Before(min) {
				min = t
			}
			if t.After(max) {
				max = t
			}
			unique[t] = true
		}

		report.Analysis[col] = TimeSeriesColumn{
			MinDate:       min,
			MaxDate:       max,
			DateRangeDays: int(max.Sub(min).Hours() / 24),
			UniqueDates:   len(unique),
		}
	}

	return report, nil
}
