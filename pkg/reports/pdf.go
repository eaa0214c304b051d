package reports

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// PDF writes the print rendition of the report to path. Chart images are
// embedded from disk; charts that are missing or not PNGs are skipped.
func (g *Generator) PDF(path string) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(true, 20)

	g.pdfTitlePage(pdf)
	g.pdfExecutiveSummary(pdf)
	g.pdfDatasetOverview(pdf)
	g.pdfStatistics(pdf)
	g.pdfMissingValues(pdf)
	g.pdfCorrelations(pdf)
	g.pdfVisualizations(pdf)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing PDF report: %w", err)
	}

	return nil
}

func (g *Generator) pdfTitlePage(pdf *fpdf.Fpdf) {
	pdf.AddPage()
	pdf.Ln(60)

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(26, 26, 26)
	pdf.CellFormat(0, 12, "Data Analytics Report", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(51, 51, 51)
	generated := fmt.Sprintf("Generated on: %s", g.now().Format(timestampLayout))
	pdf.CellFormat(0, 8, generated, "", 1, "C", false, 0, "")
}

func (g *Generator) pdfHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(37, 99, 235)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(51, 51, 51)
}

func (g *Generator) pdfExecutiveSummary(pdf *fpdf.Fpdf) {
	summary := g.analysis.AISummary
	if summary == "" {
		return
	}

	pdf.AddPage()
	g.pdfHeading(pdf, "Executive Summary")

	for _, para := range strings.Split(summary, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		pdf.MultiCell(0, 6, para, "", "L", false)
		pdf.Ln(3)
	}
}

func (g *Generator) pdfDatasetOverview(pdf *fpdf.Fpdf) {
	rows := g.overviewRows()
	if rows == nil {
		return
	}

	pdf.AddPage()
	g.pdfHeading(pdf, "Dataset Overview")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	pdf.CellFormat(80, 10, "Metric", "1", 0, "C", true, 0, "")
	pdf.CellFormat(80, 10, "Value", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(51, 51, 51)
	for _, row := range rows {
		pdf.CellFormat(80, 9, row[0], "1", 0, "C", true, 0, "")
		pdf.CellFormat(80, 9, row[1], "1", 1, "C", true, 0, "")
	}
}

func (g *Generator) pdfStatistics(pdf *fpdf.Fpdf) {
	rows := g.statisticsRows()
	if len(rows) == 0 {
		return
	}

	pdf.AddPage()
	g.pdfHeading(pdf, "Statistical Summary")

	headers := []string{"Column", "Mean", "Median", "Std", "Min", "Max"}
	widths := []float64{50, 22, 22, 22, 22, 22}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	for i, h := range headers {
		last := 0
		if i == len(headers)-1 {
			last = 1
		}
		pdf.CellFormat(widths[i], 9, h, "1", last, "C", true, 0, "")
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(51, 51, 51)
	for _, row := range rows {
		for i, cell := range row {
			last := 0
			if i == len(row)-1 {
				last = 1
			}
			pdf.CellFormat(widths[i], 8, cell, "1", last, "C", true, 0, "")
		}
	}
}

func (g *Generator) pdfCorrelations(pdf *fpdf.Fpdf) {
	pairs := g.strongCorrelations()
	if len(pairs) == 0 {
		return
	}

	pdf.Ln(12)
	g.pdfHeading(pdf, "Strong Correlations")

	for _, pair := range pairs {
		line := fmt.Sprintf("%s and %s: %.3f", pair.Column1, pair.Column2, pair.Correlation)
		pdf.MultiCell(0, 6, line, "", "L", false)
	}
}

func (g *Generator) pdfMissingValues(pdf *fpdf.Fpdf) {
	missing := g.analysis.MissingValues
	if missing == nil {
		return
	}

	pdf.Ln(12)
	g.pdfHeading(pdf, "Missing Values Analysis")

	pdf.MultiCell(0, 6, fmt.Sprintf("Total missing values: %d", missing.TotalMissing), "", "L", false)
	pdf.MultiCell(0, 6, fmt.Sprintf("Rows with missing data: %d (%.2f%%)",
		missing.RowsWithMissing, missing.RowsWithMissingPercentage), "", "L", false)
}

func (g *Generator) pdfVisualizations(pdf *fpdf.Fpdf) {
	charts := g.embeddableCharts()
	if len(charts) == 0 {
		return
	}

	pdf.AddPage()
	g.pdfHeading(pdf, "Data Visualizations")

	for _, chart := range charts {
		pdf.ImageOptions(chart, 25, pdf.GetY(), 160, 0, true,
			fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
		pdf.Ln(8)
	}
}
