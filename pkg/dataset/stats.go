package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NumericStats is the describe-style summary of one numeric column.
type NumericStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// ValueCount is one categorical value and its frequency.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalStats summarizes one categorical column.
type CategoricalStats struct {
	UniqueCount int          `json:"unique_count"`
	TopValues   []ValueCount `json:"top_values"`
}

// Shape is the row/column count of the frame.
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// Summary is the full basic-statistics report for a frame.
type Summary struct {
	Shape              Shape                       `json:"shape"`
	Columns            []string                    `json:"columns"`
	Kinds              map[string]Kind             `json:"dtypes"`
	MissingValues      map[string]int              `json:"missing_values"`
	MissingPercentage  map[string]float64          `json:"missing_percentage"`
	NumericColumns     []string                    `json:"numeric_columns"`
	CategoricalColumns []string                    `json:"categorical_columns"`
	DatetimeColumns    []string                    `json:"datetime_columns"`
	NumericSummary     map[string]NumericStats     `json:"statistical_summary,omitempty"`
	CategoricalSummary map[string]CategoricalStats `json:"categorical_summary,omitempty"`
}

// Summarize computes the basic-statistics report: shape, per-column kinds
// and missing counts, describe-style numeric summaries, and top-10 value
// counts for categorical columns.
func (f *Frame) Summarize() *Summary {
	s := &Summary{
		Shape:              Shape{Rows: f.Rows(), Columns: len(f.columns)},
		Columns:            f.Columns(),
		Kinds:              make(map[string]Kind, len(f.columns)),
		MissingValues:      make(map[string]int, len(f.columns)),
		MissingPercentage:  make(map[string]float64, len(f.columns)),
		NumericColumns:     f.ColumnsOfKind(KindNumeric),
		CategoricalColumns: f.ColumnsOfKind(KindCategorical),
		DatetimeColumns:    f.ColumnsOfKind(KindDatetime),
	}

	for _, col := range f.columns {
		s.Kinds[col] = f.kinds[col]
		missing := f.missingCount(col)
		s.MissingValues[col] = missing
		s.MissingPercentage[col] = round2(float64(missing) / float64(f.Rows()) * 100)
	}

	if len(s.NumericColumns) > 0 {
		s.NumericSummary = make(map[string]NumericStats, len(s.NumericColumns))
		for _, col := range s.NumericColumns {
			values, err := f.Numeric(col)
			if err != nil || len(values) == 0 {
				continue
			}
			s.NumericSummary[col] = describe(values)
		}
	}

	if len(s.CategoricalColumns) > 0 {
		s.CategoricalSummary = make(map[string]CategoricalStats, len(s.CategoricalColumns))
		for _, col := range s.CategoricalColumns {
			s.CategoricalSummary[col] = f.categoricalStats(col, 10)
		}
	}

	return s
}

func (f *Frame) missingCount(column string) int {
	idx := f.index(column)
	if idx < 0 {
		return 0
	}
	count := 0
	for _, row := range f.cells {
		if row[idx] == "" {
			count++
		}
	}
	return count
}

func (f *Frame) categoricalStats(column string, top int) CategoricalStats {
	idx := f.index(column)
	counts := map[string]int{}
	for _, row := range f.cells {
		if row[idx] != "" {
			counts[row[idx]]++
		}
	}

	return CategoricalStats{
		UniqueCount: len(counts),
		TopValues:   topValues(counts, top),
	}
}

// topValues sorts by descending count with value as the tiebreaker so the
// ordering is deterministic.
func topValues(counts map[string]int, limit int) []ValueCount {
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// describe computes the pandas-describe style summary over values.
func describe(values []float64) NumericStats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	std := 0.0
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}

	return NumericStats{
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		Std:    std,
		Min:    sorted[0],
		Q25:    quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q75:    quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// quantile matches the linear interpolation pandas uses, which
// stat.Quantile's empirical weighting does not.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
