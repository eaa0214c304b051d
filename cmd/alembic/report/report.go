// Package reportcmder provides the report command for rendering a full
// dataset report in markdown, HTML, and PDF.
package reportcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hexlockco/alembic/pkg/charts"
	"github.com/hexlockco/alembic/pkg/cliui"
	"github.com/hexlockco/alembic/pkg/config"
	"github.com/hexlockco/alembic/pkg/dataset"
	"github.com/hexlockco/alembic/pkg/eventstream"
	"github.com/hexlockco/alembic/pkg/insights"
	"github.com/hexlockco/alembic/pkg/logger"
	"github.com/hexlockco/alembic/pkg/reports"
	"github.com/hexlockco/alembic/pkg/store"
	"github.com/hexlockco/alembic/pkg/wiring"
)

type reportCommander struct {
	cfg       *config.Config
	format    string
	withAI    bool
	debug     bool
	outputDir string
	maxCharts uint
	sqlite    string
}

const reportLongDesc string = `Render a full dataset report.

Runs the same analysis as "alembic analyze", then renders it as a document:
markdown, HTML, PDF, or all three. Chart images are embedded in the HTML and
PDF renditions. The markdown report is also persisted to the report history.

With --ai an AI-generated executive summary is included
(requires ALCHEMYST_API_KEY).

Examples:
  alembic report sales.csv
  alembic report sales.csv --format pdf
  alembic report sales.csv --ai --output ./out`

const reportShortDesc string = "Render a dataset report (markdown/html/pdf)"

func NewReportCmd() *cobra.Command {
	cmder := &reportCommander{}

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: reportShortDesc,
		Long:  reportLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagOutputDir,
				config.FlagMaxCharts,
				config.FlagSQLite,
			})

			cmder.cfg = config.ConfigFromViper(v)
			cmder.outputDir = cmder.cfg.Analytics.OutputDir
			cmder.maxCharts = cmder.cfg.Analytics.MaxCharts
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			switch cmder.format {
			case "md", "html", "pdf", "all":
			default:
				return fmt.Errorf("unknown format %q (expected md, html, pdf, or all)", cmder.format)
			}

			return cmder.run(args[0])
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagOutputDir, &cmder.outputDir)
	config.AddUintFlag(cmd, config.Flags, config.FlagMaxCharts, &cmder.maxCharts)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlite)
	cmd.Flags().StringVarP(&cmder.format, "format", "f", "all", "Report format: md, html, pdf, or all")
	cmd.Flags().BoolVar(&cmder.withAI, "ai", false, "Include an AI-generated executive summary")

	return cmd
}

func (c *reportCommander) run(path string) error {
	log := logger.New(logger.WithPretty(true), logger.WithDebug(c.debug))
	ctx := context.Background()

	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var frame *dataset.Frame
	err := cliui.Step(os.Stderr, "Loading "+filepath.Base(path), func() error {
		var stepErr error
		frame, stepErr = dataset.Load(path)
		return stepErr
	})
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	analysis := &dataset.Analysis{
		Metadata:      frame.Metadata(),
		BasicStats:    frame.Summarize(),
		MissingValues: frame.AnalyzeMissing(),
	}
	if corr, corrErr := frame.Correlate(dataset.CorrPearson); corrErr == nil {
		analysis.Correlation = corr
	}
	if ts, tsErr := frame.DetectTimeSeries(); tsErr == nil {
		analysis.TimeSeries = ts
	}

	var chartPaths []string
	err = cliui.Step(os.Stderr, "Rendering charts", func() error {
		renderer, chartErr := charts.New(frame, c.outputDir, log)
		if chartErr != nil {
			return chartErr
		}
		chartPaths = renderer.AutoVisualize(int(c.maxCharts))
		return nil
	})
	if err != nil {
		return fmt.Errorf("rendering charts: %w", err)
	}

	if c.withAI {
		err = cliui.Step(os.Stderr, "Generating AI summary", func() error {
			creds := config.CredentialsFromEnv()
			client, aiErr := wiring.NewPlatform(c.cfg, creds, log)
			if aiErr != nil {
				return aiErr
			}

			summary, aiErr := insights.New(client).Summary(ctx, frame)
			if aiErr != nil {
				return aiErr
			}
			analysis.AISummary = summary
			return nil
		})
		if err != nil {
			return fmt.Errorf("generating AI summary: %w", err)
		}
	}

	gen := reports.New(analysis, chartPaths)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	written := make([]string, 0, 3)
	render := func(format string, fn func(string) error) error {
		out := filepath.Join(c.outputDir, base+"_report."+format)
		if err := cliui.Step(os.Stderr, "Writing "+filepath.Base(out), func() error {
			return fn(out)
		}); err != nil {
			return fmt.Errorf("writing %s report: %w", format, err)
		}
		written = append(written, out)
		return nil
	}

	if c.format == "md" || c.format == "all" {
		if err := render("md", gen.Markdown); err != nil {
			return err
		}
	}
	if c.format == "html" || c.format == "all" {
		if err := render("html", gen.HTML); err != nil {
			return err
		}
	}
	if c.format == "pdf" || c.format == "all" {
		if err := render("pdf", gen.PDF); err != nil {
			return err
		}
	}

	if err := c.persist(ctx, path, gen, log); err != nil {
		return err
	}

	cliui.Heading(os.Stdout, "Report written")
	for _, out := range written {
		cliui.KeyValue(os.Stdout, filepath.Ext(out)[1:], out)
	}

	return nil
}

// persist records the markdown rendition in the report history and publishes
// a completion event.
func (c *reportCommander) persist(ctx context.Context, datasetPath string, gen *reports.Generator, log *slog.Logger) error {
	tmp, err := os.CreateTemp("", "alembic-report-*.md")
	if err != nil {
		return fmt.Errorf("persisting report: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := gen.Markdown(tmpPath); err != nil {
		return fmt.Errorf("persisting report: %w", err)
	}

	content, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("persisting report: %w", err)
	}

	storer, err := wiring.NewStore(c.cfg, log)
	if err != nil {
		return err
	}
	defer storer.Close()

	publisher, err := wiring.NewPublisher(c.cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	record := &store.Record{
		ID:        uuid.NewString(),
		Kind:      store.KindAnalysis,
		Query:     datasetPath,
		Content:   string(content),
		CreatedAt: time.Now().UTC(),
	}
	if err := storer.Put(ctx, record); err != nil {
		return fmt.Errorf("persisting report: %w", err)
	}

	event := eventstream.NewReportPersistedEvent(uuid.NewString(), c.cfg.Platform.Persona, "cli", record)
	if err := publisher.PublishReport(ctx, event); err != nil {
		log.Warn("failed to publish report event", "error", err)
	}

	return nil
}
