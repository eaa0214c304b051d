// Package patternscmder provides the patterns command for AI-assisted
// pattern detection on a single dataset column.
package patternscmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexlockco/alembic/pkg/cliui"
	"github.com/hexlockco/alembic/pkg/config"
	"github.com/hexlockco/alembic/pkg/dataset"
	"github.com/hexlockco/alembic/pkg/insights"
	"github.com/hexlockco/alembic/pkg/logger"
	"github.com/hexlockco/alembic/pkg/wiring"
)

type patternsCommander struct {
	cfg   *config.Config
	debug bool

	baseURL string
	persona string
}

const patternsLongDesc string = `Detect patterns, anomalies, and trends in a single dataset column.

The column's statistics (distribution, outliers, unique values) are
summarized and sent for analysis along with sample values.

Requires ALCHEMYST_API_KEY.

Examples:
  alembic patterns sales.csv revenue
  alembic patterns users.xlsx signup_date`

const patternsShortDesc string = "Detect patterns in a dataset column"

func NewPatternsCmd() *cobra.Command {
	cmder := &patternsCommander{}

	cmd := &cobra.Command{
		Use:   "patterns <file> <column>",
		Short: patternsShortDesc,
		Long:  patternsLongDesc,
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagBaseURL,
				config.FlagPersona,
			})

			cmder.cfg = config.ConfigFromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(args[0], args[1])
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagPersona, &cmder.persona)

	return cmd
}

func (c *patternsCommander) run(path, column string) error {
	log := logger.New(logger.WithPretty(true), logger.WithDebug(c.debug))
	ctx := context.Background()

	frame, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	creds := config.CredentialsFromEnv()
	client, err := wiring.NewPlatform(c.cfg, creds, log)
	if err != nil {
		return err
	}

	var findings string
	err = cliui.Step(os.Stderr, fmt.Sprintf("Analyzing column %q", column), func() error {
		var stepErr error
		findings, stepErr = insights.New(client).DetectPatterns(ctx, frame, column)
		return stepErr
	})
	if err != nil {
		return fmt.Errorf("pattern detection failed: %w", err)
	}

	rendered, renderErr := cliui.RenderMarkdown(findings)
	if renderErr != nil {
		log.Debug("markdown rendering failed, printing raw", "error", renderErr)
	}
	fmt.Println(rendered)

	return nil
}
