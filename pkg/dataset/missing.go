package dataset

// MissingReport is the dataset-wide missing-value analysis.
type MissingReport struct {
	TotalMissing              int                `json:"total_missing_values"`
	ColumnsWithMissing        map[string]int     `json:"columns_with_missing"`
	MissingPercentages        map[string]float64 `json:"missing_percentages"`
	RowsWithMissing           int                `json:"rows_with_missing"`
	RowsWithMissingPercentage float64            `json:"rows_with_missing_percentage"`
	CompleteRows              int                `json:"complete_rows"`
}

// AnalyzeMissing tallies missing cells per column and per row. Only columns
// that actually have gaps appear in the per-column maps.
func (f *Frame) AnalyzeMissing() *MissingReport {
	report := &MissingReport{
		ColumnsWithMissing: map[string]int{},
		MissingPercentages: map[string]float64{},
	}

	for _, col := range f.columns {
		missing := f.missingCount(col)
		if missing == 0 {
			continue
		}
		report.TotalMissing += missing
		report.ColumnsWithMissing[col] = missing
		report.MissingPercentages[col] = round2(float64(missing) / float64(f.Rows()) * 100)
	}

	for _, row := range f.cells {
		for _, cell := range row {
			if cell == "" {
				report.RowsWithMissing++
				break
			}
		}
	}

	report.RowsWithMissingPercentage = round2(float64(report.RowsWithMissing) / float64(f.Rows()) * 100)
	report.CompleteRows = f.Rows() - report.RowsWithMissing

	return report
}
