// Package correlationcmder provides the correlation command for explaining
// the relationship between two numeric dataset columns.
package correlationcmder

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

type correlationCommander struct {
	cfg   *config.Config
	debug bool

	baseURL string
	persona string
}

const correlationLongDesc string = `Explain the correlation between two numeric columns of a dataset.

The Pearson coefficient is computed locally, then sent along with both
columns' statistics for a plain-language interpretation that covers
strength, direction, and the causation caveat.

Requires ALCHEMYST_API_KEY.

Examples:
  alembic correlation sales.csv price units_sold
  alembic correlation metrics.csv cpu_usage latency_ms`

const correlationShortDesc string = "Explain the correlation between two columns"

func NewCorrelationCmd() *cobra.Command {
	cmder := &correlationCommander{}

	cmd := &cobra.Command{
		Use:   "correlation <file> <column1> <column2>",
		Short: correlationShortDesc,
		Long:  correlationLongDesc,
		Args:  cobra.ExactArgs(3),
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

			return cmder.run(args[0], args[1], args[2])
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagPersona, &cmder.persona)

	return cmd
}

func (c *correlationCommander) run(path, col1, col2 string) error {
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

	var explanation string
	err = cliui.Step(os.Stderr, fmt.Sprintf("Correlating %q and %q", col1, col2), func() error {
		var stepErr error
		explanation, stepErr = insights.New(client).ExplainCorrelation(ctx, frame, col1, col2)
		return stepErr
	})
	if err != nil {
		return fmt.Errorf("correlation analysis failed: %w", err)
	}

	rendered, renderErr := cliui.RenderMarkdown(explanation)
	if renderErr != nil {
		log.Debug("markdown rendering failed, printing raw", "error", renderErr)
	}
	fmt.Println(rendered)

	return nil
}
