package reports

import (
	"fmt"
	"html/template"
	"os"

	"github.com/hexlockco/alembic/pkg/dataset"
)

type columnInfo struct {
	Name    string
	Kind    dataset.Kind
	Missing int
}

type htmlData struct {
	Timestamp    string
	AISummary    string
	Overview     [][2]string
	ColumnInfo   []columnInfo
	Statistics   [][6]string
	Correlations []dataset.CorrelationPair
	Charts       []string
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Data Analytics Report</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
      line-height: 1.6;
      color: #333;
      background: #f5f5f5;
    }
    .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
    header {
      background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
      color: white;
      padding: 40px 20px;
      text-align: center;
      border-radius: 10px;
      margin-bottom: 30px;
    }
    h1 { font-size: 2.5em; margin-bottom: 10px; }
    .timestamp { opacity: 0.9; font-size: 0.9em; }
    .section {
      background: white;
      padding: 30px;
      margin-bottom: 20px;
      border-radius: 10px;
      box-shadow: 0 2px 4px rgba(0,0,0,0.1);
    }
    h2 { color: #667eea; margin-bottom: 20px; padding-bottom: 10px; border-bottom: 3px solid #667eea; }
    .summary {
      background: #f8f9fa;
      padding: 20px;
      border-left: 4px solid #667eea;
      margin: 20px 0;
      white-space: pre-wrap;
    }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; }
    th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
    th { background-color: #667eea; color: white; font-weight: 600; }
    tr:hover { background-color: #f5f5f5; }
    .chart-container { margin: 20px 0; text-align: center; }
    .chart-container img {
      max-width: 100%;
      height: auto;
      border-radius: 8px;
      box-shadow: 0 4px 6px rgba(0,0,0,0.1);
    }
    .metric-grid {
      display: grid;
      grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
      gap: 20px;
      margin: 20px 0;
    }
    .metric-card { background: #f8f9fa; padding: 20px; border-radius: 8px; text-align: center; }
    .metric-value { font-size: 2em; font-weight: bold; color: #667eea; }
    .metric-label { color: #666; margin-top: 8px; }
    footer { text-align: center; padding: 20px; color: #666; margin-top: 40px; }
  </style>
</head>
<body>
  <div class="container">
    <header>
      <h1>Data Analytics Report</h1>
      <p class="timestamp">Generated on: {{ .Timestamp }}</p>
    </header>

    {{ if .AISummary }}
    <div class="section">
      <h2>Executive Summary</h2>
      <div class="summary">{{ .AISummary }}</div>
    </div>
    {{ end }}

    <div class="section">
      <h2>Dataset Overview</h2>
      <div class="metric-grid">
        {{ range .Overview }}
        <div class="metric-card">
          <div class="metric-value">{{ index . 1 }}</div>
          <div class="metric-label">{{ index . 0 }}</div>
        </div>
        {{ end }}
      </div>

      {{ if .ColumnInfo }}
      <h3>Column Information</h3>
      <table>
        <thead>
          <tr>
            <th>Column Name</th>
            <th>Data Type</th>
            <th>Missing Values</th>
          </tr>
        </thead>
        <tbody>
          {{ range .ColumnInfo }}
          <tr>
            <td>{{ .Name }}</td>
            <td>{{ .Kind }}</td>
            <td>{{ .Missing }}</td>
          </tr>
          {{ end }}
        </tbody>
      </table>
      {{ end }}
    </div>

    {{ if .Statistics }}
    <div class="section">
      <h2>Statistical Summary</h2>
      <table>
        <thead>
          <tr>
            <th>Column</th>
            <th>Mean</th>
            <th>Median</th>
            <th>Std</th>
            <th>Min</th>
            <th>Max</th>
          </tr>
        </thead>
        <tbody>
          {{ range .Statistics }}
          <tr>
            <td>{{ index . 0 }}</td>
            <td>{{ index . 1 }}</td>
            <td>{{ index . 2 }}</td>
            <td>{{ index . 3 }}</td>
            <td>{{ index . 4 }}</td>
            <td>{{ index . 5 }}</td>
          </tr>
          {{ end }}
        </tbody>
      </table>
    </div>
    {{ end }}

    {{ if .Correlations }}
    <div class="section">
      <h2>Strong Correlations</h2>
      <table>
        <thead>
          <tr>
            <th>Column 1</th>
            <th>Column 2</th>
            <th>Correlation</th>
          </tr>
        </thead>
        <tbody>
          {{ range .Correlations }}
          <tr>
            <td>{{ .Column1 }}</td>
            <td>{{ .Column2 }}</td>
            <td>{{ printf "%.3f" .Correlation }}</td>
          </tr>
          {{ end }}
        </tbody>
      </table>
    </div>
    {{ end }}

    {{ if .Charts }}
    <div class="section">
      <h2>Visualizations</h2>
      {{ range .Charts }}
      <div class="chart-container">
        <img src="{{ . }}" alt="Chart">
      </div>
      {{ end }}
    </div>
    {{ end }}

    <footer>
      <p>Generated by Alembic</p>
    </footer>
  </div>
</body>
</html>
`))

// HTML writes the browser rendition of the report to path.
func (g *Generator) HTML(path string) error {
	data := htmlData{
		Timestamp:    g.now().Format(timestampLayout),
		AISummary:    g.analysis.AISummary,
		Overview:     g.overviewRows(),
		Statistics:   g.statisticsRows(),
		Correlations: g.strongCorrelations(),
		Charts:       g.chartPaths,
	}

	if stats := g.analysis.BasicStats; stats != nil {
		for _, col := range stats.Columns {
			data.ColumnInfo = append(data.ColumnInfo, columnInfo{
				Name:    col,
				Kind:    stats.Kinds[col],
				Missing: stats.MissingValues[col],
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating HTML report: %w", err)
	}
	defer f.Close()

	if err := htmlTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("rendering HTML report: %w", err)
	}

	return f.Close()
}
