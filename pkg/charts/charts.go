// Package charts renders dataset visualizations: static PNG charts through
// gonum/plot and interactive HTML charts through go-echarts. AutoVisualize
// mirrors the analyze flow's chart ordering: correlation heatmap first, then
// numeric histograms, categorical bars, and the scatter of the most
// correlated pair.
package charts

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/hexlockco/alembic/pkg/dataset"
)

// How many of each chart family AutoVisualize considers.
const (
	autoHistograms   = 3
	autoBars         = 2
	maxBarCategories = 50
	histogramBins    = 30
	barValueLimit    = 20
)

// Renderer writes charts for one frame into an output directory.
type Renderer struct {
	frame  *dataset.Frame
	outDir string
	log    *slog.Logger
}

// New creates the output directory if needed. The logger may be nil.
func New(frame *dataset.Frame, outDir string, log *slog.Logger) (*Renderer, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating chart output dir: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{frame: frame, outDir: outDir, log: log}, nil
}

// Histogram renders the distribution of a numeric column.
func (r *Renderer) Histogram(column string) (string, error) {
	values, err := r.frame.Numeric(column)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", fmt.Errorf("charts: column %q has no values", column)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", column)
	p.X.Label.Text = column
	p.Y.Label.Text = "Frequency"

	hist, err := plotter.NewHist(plotter.Values(values), histogramBins)
	if err != nil {
		return "", fmt.Errorf("building histogram: %w", err)
	}
	p.Add(hist)

	return r.save(p, fmt.Sprintf("%s_distribution.png", column), 12, 6)
}

// Bar renders the top value counts of a categorical column.
func (r *Renderer) Bar(column string) (string, error) {
	summary, err := r.frame.SummarizeColumn(column)
	if err != nil {
		return "", err
	}
	if len(summary.TopValues) == 0 {
		return "", fmt.Errorf("charts: column %q has no values", column)
	}

	top := summary.TopValues
	if len(top) > barValueLimit {
		top = top[:barValueLimit]
	}

	values := make(plotter.Values, len(top))
	labels := make([]string, len(top))
	for i, vc := range top {
		values[i] = float64(vc.Count)
		labels[i] = vc.Value
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top Values in %s", column)
	p.Y.Label.Text = "Count"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return "", fmt.Errorf("building bar chart: %w", err)
	}
	p.Add(bars)
	p.NominalX(labels...)

	return r.save(p, fmt.Sprintf("%s_distribution.png", column), 12, 6)
}

// Scatter renders one numeric column against another.
func (r *Renderer) Scatter(xCol, yCol string) (string, error) {
	xs, ys, err := r.frame.PairedNumeric(xCol, yCol)
	if err != nil {
		return "", err
	}
	if len(xs) == 0 {
		return "", fmt.Errorf("charts: no paired values between %q and %q", xCol, yCol)
	}

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Scatter Plot: %s vs %s", xCol, yCol)
	p.X.Label.Text = xCol
	p.Y.Label.Text = yCol

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return "", fmt.Errorf("building scatter: %w", err)
	}
	p.Add(scatter)

	return r.save(p, fmt.Sprintf("scatter_%s_vs_%s.png", xCol, yCol), 12, 8)
}

// TimeSeries renders a value column over a datetime column, sorted by time.
func (r *Renderer) TimeSeries(dateCol, valueCol string) (string, error) {
	times, values, err := r.frame.TimePairs(dateCol, valueCol)
	if err != nil {
		return "", err
	}
	if len(times) == 0 {
		return "", fmt.Errorf("charts: no paired values between %q and %q", dateCol, valueCol)
	}

	pts := make(plotter.XYs, len(times))
	for i := range times {
		pts[i].X = float64(times[i].Unix())
		pts[i].Y = values[i]
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Time Series: %s over %s", valueCol, dateCol)
	p.X.Label.Text = dateCol
	p.Y.Label.Text = valueCol
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return "", fmt.Errorf("building time series: %w", err)
	}
	p.Add(line)

	return r.save(p, fmt.Sprintf("timeseries_%s.png", valueCol), 14, 6)
}

// Heatmap renders the correlation matrix of every numeric column.
func (r *Renderer) Heatmap(method string) (string, error) {
	report, err := r.frame.Correlate(method)
	if err != nil {
		return "", err
	}

	cols := r.frame.ColumnsOfKind(dataset.KindNumeric)
	grid := &corrGrid{columns: cols, matrix: report.Matrix}

	p := plot.New()
	p.Title.Text = "Correlation Heatmap"

	heatmap := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	heatmap.Min = -1
	heatmap.Max = 1
	p.Add(heatmap)
	p.NominalX(cols...)
	p.NominalY(cols...)

	return r.save(p, "correlation_heatmap.png", 10, 8)
}

// AutoVisualize renders up to maxCharts charts chosen from the data: the
// heatmap when more than one numeric column exists, histograms for the
// first three numeric columns, bars for the first two categorical columns
// with under fifty categories, and the scatter of the most correlated pair.
// Individual chart failures are logged and skipped.
func (r *Renderer) AutoVisualize(maxCharts int) []string {
	var charts []string

	add := func(path string, err error, kind string) {
		if err != nil {
			r.log.Warn("skipping chart", "kind", kind, "error", err)
			return
		}
		charts = append(charts, path)
	}

	numeric := r.frame.ColumnsOfKind(dataset.KindNumeric)
	categorical := r.frame.ColumnsOfKind(dataset.KindCategorical)

	if len(numeric) > 1 && len(charts) < maxCharts {
		path, err := r.Heatmap(dataset.CorrPearson)
		add(path, err, "heatmap")
	}

	for i, col := range numeric {
		if i >= autoHistograms || len(charts) >= maxCharts {
			break
		}
		path, err := r.Histogram(col)
		add(path, err, "histogram")
	}

	bars := 0
	for _, col := range categorical {
		if bars >= autoBars || len(charts) >= maxCharts {
			break
		}
		if summary, err := r.frame.SummarizeColumn(col); err != nil || summary.UniqueValues >= maxBarCategories {
			continue
		}
		path, err := r.Bar(col)
		add(path, err, "bar")
		bars++
	}

	if len(numeric) >= 2 && len(charts) < maxCharts {
		if col1, col2, ok := topCorrelatedPair(r.frame, numeric); ok {
			path, err := r.Scatter(col1, col2)
			add(path, err, "scatter")
		}
	}

	return charts
}

func (r *Renderer) save(p *plot.Plot, name string, w, h vg.Length) (string, error) {
	path := filepath.Join(r.outDir, name)
	if err := p.Save(w*vg.Inch, h*vg.Inch, path); err != nil {
		return "", fmt.Errorf("saving %s: %w", name, err)
	}
	r.log.Debug("chart written", "path", path)
	return path, nil
}

// topCorrelatedPair picks the numeric pair with the largest |r|.
func topCorrelatedPair(f *dataset.Frame, numeric []string) (string, string, bool) {
	best := -1.0
	var col1, col2 string
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			r, err := f.CorrelatePair(numeric[i], numeric[j], dataset.CorrPearson)
			if err != nil {
				continue
			}
			if abs := math.Abs(r); abs > best {
				best = abs
				col1, col2 = numeric[i], numeric[j]
			}
		}
	}
	return col1, col2, best >= 0
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
type corrGrid struct {
	columns []string
	matrix  map[string]map[string]float64
}

func (g *corrGrid) Dims() (int, int) { return len(g.columns), len(g.columns) }
func (g *corrGrid) X(c int) float64  { return float64(c) }
func (g *corrGrid) Y(r int) float64  { return float64(r) }
func (g *corrGrid) Z(c, r int) float64 {
	return g.matrix[g.columns[r]][g.columns[c]]
}
