package dataset

import (
	"encoding/json"
	"fmt"
	"os"
)

// Analysis aggregates every report produced for one dataset, the shape the
// analyze command writes to disk and the report renderers consume.
type Analysis struct {
	Metadata      Metadata           `json:"metadata"`
	BasicStats    *Summary           `json:"basic_stats,omitempty"`
	Correlation   *CorrelationReport `json:"correlation,omitempty"`
	MissingValues *MissingReport     `json:"missing_values,omitempty"`
	TimeSeries    *TimeSeriesReport  `json:"time_series,omitempty"`
	AISummary     string             `json:"ai_summary,omitempty"`
}

// Export writes the analysis as indented JSON.
func (a *Analysis) Export(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing analysis to %s: %w", path, err)
	}

	return nil
}
