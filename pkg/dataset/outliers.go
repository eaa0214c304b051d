package dataset

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Outlier detection methods.
const (
	MethodIQR    = "iqr"
	MethodZScore = "zscore"
)

// maxReportedOutliers caps the listed values so a pathological column does
// not balloon the report.
const maxReportedOutliers = 50

// Bounds are the inclusive cut-offs used by the IQR method.
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// OutlierReport is the result of one outlier scan.
type OutlierReport struct {
	Column            string    `json:"column"`
	Method            string    `json:"method"`
	TotalOutliers     int       `json:"total_outliers"`
	OutlierPercentage float64   `json:"outlier_percentage"`
	OutlierValues     []float64 `json:"outlier_values"`
	Bounds            *Bounds   `json:"bounds,omitempty"`
}

// DetectOutliers scans a numeric column with the requested method. The IQR
// method flags values outside [Q1-1.5*IQR, Q3+1.5*IQR]; the z-score method
// flags values more than three population standard deviations from the mean.
func (f *Frame) DetectOutliers(column, method string) (*OutlierReport, error) {
	values, err := f.Numeric(column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("dataset: column %q has no values", column)
	}

	report := &OutlierReport{Column: column, Method: method}

	var outliers []float64
	switch method {
	case MethodIQR:
		var bounds Bounds
		outliers, bounds = iqrOutliers(values)
		report.Bounds = &bounds
	case MethodZScore:
		outliers = zscoreOutliers(values)
	default:
		return nil, fmt.Errorf("dataset: unknown outlier method %q (use %q or %q)", method, MethodIQR, MethodZScore)
	}

	report.TotalOutliers = len(outliers)
	report.OutlierPercentage = round2(float64(len(outliers)) / float64(len(values)) * 100)
	if len(outliers) > maxReportedOutliers {
		outliers = outliers[:maxReportedOutliers]
	}
	report.OutlierValues = outliers

	return report, nil
}

func iqrOutliers(values []float64) ([]float64, Bounds) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	bounds := Bounds{Lower: q1 - 1.5*iqr, Upper: q3 + 1.5*iqr}

	var outliers []float64
	for _, v := range values {
		if v < bounds.Lower || v > bounds.Upper {
			outliers = append(outliers, v)
		}
	}
	return outliers, bounds
}

func zscoreOutliers(values []float64) []float64 {
	mean := stat.Mean(values, nil)
	std := stat.PopStdDev(values, nil)
	if std == 0 {
		return nil
	}

	var outliers []float64
	for _, v := range values {
		if math.Abs((v-mean)/std) > 3 {
			outliers = append(outliers, v)
		}
	}
	return outliers
}
