package dataset

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Correlation methods.
const (
	CorrPearson  = "pearson"
	CorrSpearman = "spearman"
)

// strongCorrelationCutoff splits "strong" pairs from the rest.
const strongCorrelationCutoff = 0.7

// CorrelationPair is the coefficient between two columns.
type CorrelationPair struct {
	Column1     string  `json:"column1"`
	Column2     string  `json:"column2"`
	Correlation float64 `json:"correlation"`
}

// CorrelationReport holds the full matrix and its notable pairs.
type CorrelationReport struct {
	Method      string                        `json:"method"`
	Matrix      map[string]map[string]float64 `json:"matrix"`
	TopPositive []CorrelationPair             `json:"top_positive_correlations"`
	TopNegative []CorrelationPair             `json:"top_negative_correlations"`
	Strong      []CorrelationPair             `json:"strong_correlations"`
}

// Correlate computes the pairwise correlation matrix over every numeric
// column, pairing values row-wise and skipping rows where either side is
// missing, then pulls out the top ten positive, top ten negative, and all
// strong (|r| > 0.7) pairs sorted by absolute value.
func (f *Frame) Correlate(method string) (*CorrelationReport, error) {
	if method != CorrPearson && method != CorrSpearman {
		return nil, fmt.Errorf("dataset: unknown correlation method %q (use %q or %q)", method, CorrPearson, CorrSpearman)
	}

	numeric := f.ColumnsOfKind(KindNumeric)
	if len(numeric) == 0 {
		return nil, ErrNoNumericColumns
	}

	matrix := make(map[string]map[string]float64, len(numeric))
	for _, c := range numeric {
		matrix[c] = map[string]float64{c: 1}
	}

	var pairs []CorrelationPair
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			r, err := f.correlatePair(numeric[i], numeric[j], method)
			if err != nil {
				return nil, err
			}
			matrix[numeric[i]][numeric[j]] = r
			matrix[numeric[j]][numeric[i]] = r
			pairs = append(pairs, CorrelationPair{
				Column1:     numeric[i],
				Column2:     numeric[j],
				Correlation: r,
			})
		}
	}

	sort.Slice(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].Correlation) > math.Abs(pairs[b].Correlation)
	})

	report := &CorrelationReport{Method: method, Matrix: matrix}
	for _, p := range pairs {
		if p.Correlation > 0 && len(report.TopPositive) < 10 {
			report.TopPositive = append(report.TopPositive, p)
		}
		if p.Correlation < 0 && len(report.TopNegative) < 10 {
			report.TopNegative = append(report.TopNegative, p)
		}
		if math.Abs(p.Correlation) > strongCorrelationCutoff {
			report.Strong = append(report.Strong, p)
		}
	}

	return report, nil
}

// CorrelatePair computes the coefficient between two numeric columns.
func (f *Frame) CorrelatePair(col1, col2, method string) (float64, error) {
	if method != CorrPearson && method != CorrSpearman {
		return 0, fmt.Errorf("dataset: unknown correlation method %q", method)
	}
	return f.correlatePair(col1, col2, method)
}

func (f *Frame) correlatePair(col1, col2, method string) (float64, error) {
	xs, ys, err := f.PairedNumeric(col1, col2)
	if err != nil {
		return 0, err
	}
	if len(xs) < 2 {
		return 0, fmt.Errorf("dataset: not enough paired values between %q and %q", col1, col2)
	}

	if method == CorrSpearman {
		xs = ranks(xs)
		ys = ranks(ys)
	}

	return stat.Correlation(xs, ys, nil), nil
}

// ranks converts values to their averaged ranks (ties share the mean rank),
// which turns a Pearson coefficient into Spearman's rho.
func ranks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	out := make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		// Average rank across the tie run; ranks are 1-based.
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}
