// Package askcmder provides the ask command for answering questions with
// ingested context.
package askcmder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hexlockco/alembic/pkg/cliui"
	"github.com/hexlockco/alembic/pkg/config"
	"github.com/hexlockco/alembic/pkg/logger"
	"github.com/hexlockco/alembic/pkg/wiring"
)

type askCommander struct {
	cfg   *config.Config
	debug bool

	persona string
	baseURL string
	model   string
}

const askLongDesc string = `Answer a question using ingested context.

Stored context is searched first and included in the prompt when relevant.
If the primary generation attempt fails, the question is retried without
context and the answer is marked as a fallback response.

Examples:
  alembic ask "What does the Q3 report say about churn?"
  alembic ask "Summarize the onboarding docs" --model gemini-2.0-flash`

const askShortDesc string = "Answer a question using ingested context"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagPersona,
				config.FlagBaseURL,
				config.FlagGeminiModel,
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

			return cmder.run(strings.Join(args, " "))
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagPersona, &cmder.persona)
	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagGeminiModel, &cmder.model)

	return cmd
}

func (c *askCommander) run(question string) error {
	log := logger.New(logger.WithPretty(true), logger.WithDebug(c.debug))

	ctx := context.Background()
	creds := config.CredentialsFromEnv()

	answerer, err := wiring.NewAgent(ctx, c.cfg, creds, log)
	if err != nil {
		return err
	}

	var answer string
	err = cliui.Step(os.Stderr, "Thinking", func() error {
		var stepErr error
		answer, stepErr = answerer.Answer(ctx, question)
		return stepErr
	})
	if err != nil {
		return fmt.Errorf("answering failed: %w", err)
	}

	rendered, renderErr := cliui.RenderMarkdown(answer)
	if renderErr != nil {
		log.Debug("markdown rendering failed, printing raw", "error", renderErr)
	}
	fmt.Println(rendered)

	return nil
}
