// Package historycmder provides the history command for browsing stored reports.
package historycmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexlockco/alembic/pkg/cliui"
	"github.com/hexlockco/alembic/pkg/config"
	"github.com/hexlockco/alembic/pkg/logger"
	"github.com/hexlockco/alembic/pkg/store"
	"github.com/hexlockco/alembic/pkg/utils"
	"github.com/hexlockco/alembic/pkg/wiring"
)

type historyCommander struct {
	cfg   *config.Config
	debug bool

	limit  int
	showID string
	sqlite string
}

const historyLongDesc string = `Browse previously stored research reports and analyses.

Without flags, lists the most recent reports newest-first. Use --show
with a report ID to print the full report content.

History requires a SQLite store; set --sqlite or store.sqlite_path in
the config file.

Examples:
  alembic history --sqlite reports.db
  alembic history --sqlite reports.db --limit 5
  alembic history --sqlite reports.db --show 4c2f1f0a-...`

const historyShortDesc string = "Browse stored reports"

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagSQLite,
			})

			cmder.cfg = config.ConfigFromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlite)
	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 20, "Maximum number of reports to list")
	cmd.Flags().StringVar(&cmder.showID, "show", "", "Print the full content of the report with this ID")

	return cmd
}

func (c *historyCommander) run() error {
	log := logger.New(logger.WithPretty(true), logger.WithDebug(c.debug))
	ctx := context.Background()

	if c.cfg.Store.SQLitePath == "" {
		return fmt.Errorf("history requires a SQLite store; set --sqlite or store.sqlite_path")
	}

	storer, err := wiring.NewStore(c.cfg, log)
	if err != nil {
		return err
	}
	defer storer.Close()

	if c.showID != "" {
		return c.show(ctx, storer)
	}

	return c.list(ctx, storer)
}

func (c *historyCommander) list(ctx context.Context, storer store.Driver) error {
	records, err := storer.List(ctx, c.limit)
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}

	if len(records) == 0 {
		fmt.Printf("\n  %s No stored reports.\n\n", cliui.DimStyle.Render("●"))
		return nil
	}

	cliui.Heading(os.Stdout, fmt.Sprintf("Reports (%d)", len(records)))

	for _, record := range records {
		fmt.Printf("  %s  %s  %s\n",
			cliui.KeyStyle.Render(record.ID),
			cliui.DimStyle.Render(fmt.Sprintf("%-8s", record.Kind)),
			cliui.DimStyle.Render(record.CreatedAt.Local().Format("2006-01-02 15:04")),
		)
		fmt.Printf("      %s\n", cliui.ValueStyle.Render(utils.Truncate(record.Query, 72)))
	}
	fmt.Println()

	return nil
}

func (c *historyCommander) show(ctx context.Context, storer store.Driver) error {
	record, err := storer.Get(ctx, c.showID)
	if err != nil {
		return fmt.Errorf("fetching report: %w", err)
	}

	cliui.Heading(os.Stdout, record.Query)
	cliui.KeyValue(os.Stdout, "ID", record.ID)
	cliui.KeyValue(os.Stdout, "Kind", string(record.Kind))
	cliui.KeyValue(os.Stdout, "Created", record.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Println()

	rendered, renderErr := cliui.RenderMarkdown(record.Content)
	if renderErr != nil {
		rendered = record.Content
	}
	fmt.Println(rendered)

	return nil
}
