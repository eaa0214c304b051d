// Package researchcmder provides the research command for generating
// AI research reports on a company or topic.
package researchcmder

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hexlockco/alembic/pkg/cliui"
	"github.com/hexlockco/alembic/pkg/config"
	"github.com/hexlockco/alembic/pkg/eventstream"
	"github.com/hexlockco/alembic/pkg/logger"
	"github.com/hexlockco/alembic/pkg/store"
	"github.com/hexlockco/alembic/pkg/stream"
	"github.com/hexlockco/alembic/pkg/wiring"
)

type researchCommander struct {
	cfg        *config.Config
	outputPath string
	debug      bool

	persona string
	baseURL string
	model   string
	sqlite  string
}

const researchLongDesc string = `Generate a research report on a company or topic.

Ingested context is searched first; when relevant context exists the report
is generated from it alone. Otherwise a deep research response is streamed
from the platform.

Reports are persisted to the report history (see "alembic history").

Examples:
  alembic research "Acme Corp"
  alembic research "Acme Corp" --output acme.md
  alembic research "Acme Corp" --persona maya --sqlite ~/.alembic/reports.db`

const researchShortDesc string = "Generate an AI research report"

func NewResearchCmd() *cobra.Command {
	cmder := &researchCommander{}

	cmd := &cobra.Command{
		Use:   "research <company or topic>",
		Short: researchShortDesc,
		Long:  researchLongDesc,
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
				config.FlagSQLite,
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
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlite)
	cmd.Flags().StringVarP(&cmder.outputPath, "output", "o", "", "Write the raw markdown report to a file")

	return cmd
}

func (c *researchCommander) run(query string) error {
	log := logger.New(logger.WithPretty(true), logger.WithDebug(c.debug))

	ctx := context.Background()
	creds := config.CredentialsFromEnv()

	researcher, err := wiring.NewAgent(ctx, c.cfg, creds, log)
	if err != nil {
		return err
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

	cliui.Heading(os.Stdout, "Research: "+query)

	report, err := researcher.Research(ctx, query, func(ev stream.Event) {
		switch ev.Kind {
		case stream.KindStatus:
			fmt.Fprintf(os.Stderr, "  %s %s\n", cliui.SkipMark, cliui.DimStyle.Render(ev.Text))
		case stream.KindError:
			fmt.Fprintf(os.Stderr, "  %s %s\n", cliui.FailMark, ev.Text)
		}
	})
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	rendered, renderErr := cliui.RenderMarkdown(report)
	if renderErr != nil {
		log.Debug("markdown rendering failed, printing raw", "error", renderErr)
	}
	fmt.Println(rendered)

	record := &store.Record{
		ID:        uuid.NewString(),
		Kind:      store.KindResearch,
		Query:     query,
		Content:   report,
		CreatedAt: time.Now().UTC(),
	}
	if err := storer.Put(ctx, record); err != nil {
		return fmt.Errorf("persisting report: %w", err)
	}

	event := eventstream.NewReportPersistedEvent(uuid.NewString(), c.cfg.Platform.Persona, "cli", record)
	if err := publisher.PublishReport(ctx, event); err != nil {
		log.Warn("failed to publish report event", "error", err)
	}

	if c.outputPath != "" {
		if err := os.WriteFile(c.outputPath, []byte(report), 0o644); err != nil {
			return fmt.Errorf("writing report file: %w", err)
		}
		fmt.Printf("  %s Saved report to %s\n", cliui.SuccessMark, c.outputPath)
	}

	return nil
}
