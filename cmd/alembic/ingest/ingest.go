// Package ingestcmder provides the ingest command for loading documents
// into the context platform.
package ingestcmder

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hexlockco/alembic/pkg/cliui"
	"github.com/hexlockco/alembic/pkg/config"
	"github.com/hexlockco/alembic/pkg/ingest"
	"github.com/hexlockco/alembic/pkg/logger"
	"github.com/hexlockco/alembic/pkg/wiring"
)

type ingestCommander struct {
	cfg        *config.Config
	extensions []string
	source     string
	workers    uint
	debug      bool

	baseURL string
}

const ingestLongDesc string = `Ingest a directory of documents into the context platform.

Files are read, sanitized, and uploaded as context documents. Uploads that
fail with full metadata are retried with a minimal payload before being
counted as failures.

Examples:
  alembic ingest ./docs
  alembic ingest ./docs --ext .md --ext .txt
  alembic ingest ./docs --source knowledge-base`

const ingestShortDesc string = "Ingest documents into the context platform"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <directory>",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagBaseURL,
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

			return cmder.run(args[0])
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	cmd.Flags().StringSliceVar(&cmder.extensions, "ext", nil, "File extensions to ingest (e.g. .md); repeatable, default all")
	cmd.Flags().StringVar(&cmder.source, "source", "", "Source label for the ingested documents (default: directory name)")
	cmd.Flags().UintVar(&cmder.workers, "workers", 0, "Concurrent upload workers (default 3)")

	return cmd
}

func (c *ingestCommander) run(dir string) error {
	log := logger.New(logger.WithPretty(true), logger.WithDebug(c.debug))

	ctx := context.Background()
	creds := config.CredentialsFromEnv()

	client, err := wiring.NewPlatform(c.cfg, creds, log)
	if err != nil {
		return err
	}

	ingester := ingest.New(client, log)

	var result *ingest.Result
	err = cliui.Step(os.Stderr, "Ingesting "+dir, func() error {
		var stepErr error
		result, stepErr = ingester.Dir(ctx, dir, ingest.Options{
			Extensions: c.extensions,
			Source:     c.source,
			Workers:    c.workers,
		})
		return stepErr
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cliui.Heading(os.Stdout, "Ingest summary")
	cliui.KeyValue(os.Stdout, "Attempted", strconv.Itoa(result.Attempted))
	cliui.KeyValue(os.Stdout, "Ingested", strconv.Itoa(result.Ingested))
	cliui.KeyValue(os.Stdout, "Failed", strconv.Itoa(result.Failed))

	if len(result.FailedFiles) > 0 {
		fmt.Printf("\n  %s Failed files:\n", cliui.FailMark)
		for _, f := range result.FailedFiles {
			fmt.Printf("    - %s\n", f)
		}
		return fmt.Errorf("%d of %d files failed to ingest", result.Failed, result.Attempted)
	}

	return nil
}
