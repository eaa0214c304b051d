package charts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// InteractiveBar writes an HTML bar chart of a categorical column's top
// value counts.
func (r *Renderer) InteractiveBar(column string) (string, error) {
	summary, err := r.frame.SummarizeColumn(column)
	if err != nil {
		return "", err
	}
	if len(summary.TopValues) == 0 {
		return "", fmt.Errorf("charts: column %q has no values", column)
	}

	labels := make([]string, len(summary.TopValues))
	data := make([]opts.BarData, len(summary.TopValues))
	for i, vc := range summary.TopValues {
		labels[i] = vc.Value
		data[i] = opts.BarData{Value: vc.Count}
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(echarts.WithTitleOpts(opts.Title{
		Title: fmt.Sprintf("Top Values in %s", column),
	}))
	bar.SetXAxis(labels).AddSeries(column, data)

	return r.render(bar, fmt.Sprintf("interactive_bar_%s.html", column))
}

// InteractiveLine writes an HTML line chart of a numeric column over a
// datetime column.
func (r *Renderer) InteractiveLine(dateCol, valueCol string) (string, error) {
	times, values, err := r.frame.TimePairs(dateCol, valueCol)
	if err != nil {
		return "", err
	}
	if len(times) == 0 {
		return "", fmt.Errorf("charts: no paired values between %q and %q", dateCol, valueCol)
	}

	labels := make([]string, len(times))
	data := make([]opts.LineData, len(times))
	for i := range times {
		labels[i] = times[i].Format("2006-01-02")
		data[i] = opts.LineData{Value: values[i]}
	}

	line := echarts.NewLine()
	line.SetGlobalOptions(echarts.WithTitleOpts(opts.Title{
		Title: fmt.Sprintf("%s over %s", valueCol, dateCol),
	}))
	line.SetXAxis(labels).AddSeries(valueCol, data)

	return r.render(line, fmt.Sprintf("interactive_line_%s.html", valueCol))
}

// InteractiveScatter writes an HTML scatter chart of two numeric columns.
func (r *Renderer) InteractiveScatter(xCol, yCol string) (string, error) {
	xs, ys, err := r.frame.PairedNumeric(xCol, yCol)
	if err != nil {
		return "", err
	}
	if len(xs) == 0 {
		return "", fmt.Errorf("charts: no paired values between %q and %q", xCol, yCol)
	}

	labels := make([]string, len(xs))
	data := make([]opts.ScatterData, len(xs))
	for i := range xs {
		labels[i] = fmt.Sprintf("%g", xs[i])
		data[i] = opts.ScatterData{Value: ys[i]}
	}

	scatter := echarts.NewScatter()
	scatter.SetGlobalOptions(echarts.WithTitleOpts(opts.Title{
		Title: fmt.Sprintf("%s vs %s", xCol, yCol),
	}))
	scatter.SetXAxis(labels).AddSeries(yCol, data)

	return r.render(scatter, fmt.Sprintf("interactive_scatter_%s_vs_%s.html", xCol, yCol))
}

type htmlRenderer interface {
	Render(w io.Writer) error
}

func (r *Renderer) render(chart htmlRenderer, name string) (string, error) {
	path := filepath.Join(r.outDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}

	r.log.Debug("chart written", "path", path)
	return path, nil
}
