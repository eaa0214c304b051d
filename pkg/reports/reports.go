// Package reports renders a dataset analysis into shareable documents:
// markdown for terminals and chat, HTML for browsers, and PDF for handoff.
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hexlockco/alembic/pkg/dataset"
)

const timestampLayout = "January 2, 2006 at 15:04"

// maxPDFCharts caps how many chart images get embedded in the PDF so the
// document stays a summary rather than a gallery.
const maxPDFCharts = 6

// Generator renders reports from one analysis run.
type Generator struct {
	analysis   *dataset.Analysis
	chartPaths []string
	now        func() time.Time
}

// New builds a Generator over an analysis and the chart files produced
// alongside it. Chart paths may be empty.
func New(analysis *dataset.Analysis, chartPaths []string) *Generator {
	return &Generator{
		analysis:   analysis,
		chartPaths: chartPaths,
		now:        time.Now,
	}
}

// Markdown writes the markdown rendition of the report to path.
func (g *Generator) Markdown(path string) error {
	var b strings.Builder

	b.WriteString("# Data Analytics Report\n\n")
	fmt.Fprintf(&b, "*Generated on: %s*\n\n", g.now().Format(timestampLayout))
	b.WriteString("---\n\n")

	if summary := g.analysis.AISummary; summary != "" {
		b.WriteString("## Executive Summary\n\n")
		b.WriteString(summary)
		b.WriteString("\n\n---\n\n")
	}

	b.WriteString("## Dataset Overview\n\n")
	if stats := g.analysis.BasicStats; stats != nil {
		fmt.Fprintf(&b, "- **Total Rows:** %d\n", stats.Shape.Rows)
		fmt.Fprintf(&b, "- **Total Columns:** %d\n", stats.Shape.Columns)
		fmt.Fprintf(&b, "- **Numeric Columns:** %d\n", len(stats.NumericColumns))
		fmt.Fprintf(&b, "- **Categorical Columns:** %d\n\n", len(stats.CategoricalColumns))
	}

	if rows := g.statisticsRows(); len(rows) > 0 {
		b.WriteString("## Statistical Summary\n\n")
		b.WriteString("| Column | Mean | Median | Std | Min | Max |\n")
		b.WriteString("|--------|------|--------|-----|-----|-----|\n")
		for _, row := range rows {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				row[0], row[1], row[2], row[3], row[4], row[5])
		}
		b.WriteString("\n")
	}

	if missing := g.analysis.MissingValues; missing != nil {
		b.WriteString("## Missing Values\n\n")
		fmt.Fprintf(&b, "- **Total missing values:** %d\n", missing.TotalMissing)
		fmt.Fprintf(&b, "- **Rows with missing data:** %d (%.2f%%)\n\n",
			missing.RowsWithMissing, missing.RowsWithMissingPercentage)
	}

	if pairs := g.strongCorrelations(); len(pairs) > 0 {
		b.WriteString("## Strong Correlations\n\n")
		for _, pair := range pairs {
			fmt.Fprintf(&b, "- **%s** and **%s**: %.3f\n",
				pair.Column1, pair.Column2, pair.Correlation)
		}
		b.WriteString("\n")
	}

	if len(g.chartPaths) > 0 {
		b.WriteString("## Visualizations\n\n")
		for i, chart := range g.chartPaths {
			fmt.Fprintf(&b, "### Chart %d\n", i+1)
			fmt.Fprintf(&b, "![Chart %d](%s)\n\n", i+1, chart)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing markdown report: %w", err)
	}

	return nil
}

// overviewRows builds the metric/value pairs shared by the PDF table and
// the HTML metric grid.
func (g *Generator) overviewRows() [][2]string {
	stats := g.analysis.BasicStats
	if stats == nil {
		return nil
	}

	return [][2]string{
		{"Total Rows", fmt.Sprintf("%d", stats.Shape.Rows)},
		{"Total Columns", fmt.Sprintf("%d", stats.Shape.Columns)},
		{"Numeric Columns", fmt.Sprintf("%d", len(stats.NumericColumns))},
		{"Categorical Columns", fmt.Sprintf("%d", len(stats.CategoricalColumns))},
	}
}

// statisticsRows builds one row per numeric column (mean, median, std,
// min, max), in summary column order.
func (g *Generator) statisticsRows() [][6]string {
	stats := g.analysis.BasicStats
	if stats == nil || len(stats.NumericSummary) == 0 {
		return nil
	}

	var rows [][6]string
	for _, col := range stats.Columns {
		ns, ok := stats.NumericSummary[col]
		if !ok {
			continue
		}
		rows = append(rows, [6]string{
			col,
			fmt.Sprintf("%.2f", ns.Mean),
			fmt.Sprintf("%.2f", ns.Median),
			fmt.Sprintf("%.2f", ns.Std),
			fmt.Sprintf("%.2f", ns.Min),
			fmt.Sprintf("%.2f", ns.Max),
		})
	}
	return rows
}

// strongCorrelations returns the |r| > 0.7 pairs, if correlation ran.
func (g *Generator) strongCorrelations() []dataset.CorrelationPair {
	if g.analysis.Correlation == nil {
		return nil
	}
	return g.analysis.Correlation.Strong
}

// embeddableCharts filters the chart list down to PNG files that actually
// exist on disk, capped for the PDF.
func (g *Generator) embeddableCharts() []string {
	var charts []string
	for _, path := range g.chartPaths {
		if len(charts) == maxPDFCharts {
			break
		}
		if filepath.Ext(path) != ".png" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		charts = append(charts, path)
	}
	return charts
}
