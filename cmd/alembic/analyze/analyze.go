// Package analyzecmder provides the analyze command for running a full
// statistical analysis over a dataset file.
package analyzecmder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hexlockco/alembic/pkg/charts"
	"github.com/hexlockco/alembic/pkg/cliui"
	"github.com/hexlockco/alembic/pkg/config"
	"github.com/hexlockco/alembic/pkg/dataset"
	"github.com/hexlockco/alembic/pkg/insights"
	"github.com/hexlockco/alembic/pkg/logger"
	"github.com/hexlockco/alembic/pkg/wiring"
)

type analyzeCommander struct {
	cfg       *config.Config
	withAI    bool
	debug     bool
	outputDir string
	maxCharts uint
}

const analyzeLongDesc string = `Run a full statistical analysis over a dataset.

Loads a CSV, JSON, or Excel file and produces descriptive statistics,
correlation analysis, missing-value analysis, time-series detection, and a
set of auto-selected charts. Results are written to the output directory as
analysis.json plus chart PNGs.

With --ai an AI-generated executive summary is added to the analysis
(requires ALCHEMYST_API_KEY).

Examples:
  alembic analyze sales.csv
  alembic analyze sales.csv --output ./out --max-charts 4
  alembic analyze sales.csv --ai`

const analyzeShortDesc string = "Analyze a dataset and generate charts"

func NewAnalyzeCmd() *cobra.Command {
	cmder := &analyzeCommander{}

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: analyzeShortDesc,
		Long:  analyzeLongDesc,
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

			return cmder.run(args[0])
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagOutputDir, &cmder.outputDir)
	config.AddUintFlag(cmd, config.Flags, config.FlagMaxCharts, &cmder.maxCharts)
	cmd.Flags().BoolVar(&cmder.withAI, "ai", false, "Add an AI-generated executive summary to the analysis")

	return cmd
}

func (c *analyzeCommander) run(path string) error {
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

	analysis := &dataset.Analysis{Metadata: frame.Metadata()}

	err = cliui.Step(os.Stderr, "Computing statistics", func() error {
		analysis.BasicStats = frame.Summarize()
		analysis.MissingValues = frame.AnalyzeMissing()

		if corr, corrErr := frame.Correlate(dataset.CorrPearson); corrErr == nil {
			analysis.Correlation = corr
		}
		if ts, tsErr := frame.DetectTimeSeries(); tsErr == nil {
			analysis.TimeSeries = ts
		}
		return nil
	})
	if err != nil {
		return err
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

	analysisPath := filepath.Join(c.outputDir, "analysis.json")
	if err := analysis.Export(analysisPath); err != nil {
		return err
	}

	cliui.Heading(os.Stdout, "Analysis summary")
	cliui.KeyValue(os.Stdout, "Rows", strconv.Itoa(analysis.BasicStats.Shape.Rows))
	cliui.KeyValue(os.Stdout, "Columns", strconv.Itoa(analysis.BasicStats.Shape.Columns))
	cliui.KeyValue(os.Stdout, "Numeric columns", strconv.Itoa(len(analysis.BasicStats.NumericColumns)))
	cliui.KeyValue(os.Stdout, "Missing values", strconv.Itoa(analysis.MissingValues.TotalMissing))
	cliui.KeyValue(os.Stdout, "Charts", strconv.Itoa(len(chartPaths)))
	cliui.KeyValue(os.Stdout, "Analysis file", analysisPath)

	return nil
}
