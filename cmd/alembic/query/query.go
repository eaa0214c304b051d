// Package querycmder provides the query command for asking natural-language
// questions about a dataset.
package querycmder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hexlockco/alembic/pkg/cliui"
	"github.com/hexlockco/alembic/pkg/config"
	"github.com/hexlockco/alembic/pkg/dataset"
	"github.com/hexlockco/alembic/pkg/insights"
	"github.com/hexlockco/alembic/pkg/logger"
	"github.com/hexlockco/alembic/pkg/wiring"
)

type queryCommander struct {
	cfg   *config.Config
	debug bool

	baseURL string
	persona string
}

const queryLongDesc string = `Ask a natural-language question about a dataset.

The dataset's statistical summary and sample rows are included with the
question so answers are grounded in the actual data.

Requires ALCHEMYST_API_KEY.

Examples:
  alembic query sales.csv "Which region has the highest revenue?"
  alembic query users.xlsx "How many rows have missing emails?"`

const queryShortDesc string = "Ask a question about a dataset"

func NewQueryCmd() *cobra.Command {
	cmder := &queryCommander{}

	cmd := &cobra.Command{
		Use:   "query <file> <question>",
		Short: queryShortDesc,
		Long:  queryLongDesc,
		Args:  cobra.MinimumNArgs(2),
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

			return cmder.run(args[0], strings.Join(args[1:], " "))
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagPersona, &cmder.persona)

	return cmd
}

func (c *queryCommander) run(path, question string) error {
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

	var answer string
	err = cliui.Step(os.Stderr, "Querying dataset", func() error {
		var stepErr error
		answer, stepErr = insights.New(client).AnswerQuery(ctx, frame, question)
		return stepErr
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	rendered, renderErr := cliui.RenderMarkdown(answer)
	if renderErr != nil {
		log.Debug("markdown rendering failed, printing raw", "error", renderErr)
	}
	fmt.Println(rendered)

	return nil
}
