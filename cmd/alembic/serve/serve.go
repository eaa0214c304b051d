// Package servecmder provides the serve command for running the research dashboard.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hexlockco/alembic/dashboard"
	"github.com/hexlockco/alembic/pkg/config"
	"github.com/hexlockco/alembic/pkg/logger"
	"github.com/hexlockco/alembic/pkg/wiring"
)

type serveCommander struct {
	cfg   *config.Config
	debug bool

	listen         string
	timeout        uint
	persona        string
	baseURL        string
	model          string
	sqlite         string
	eventsProvider string
	eventsBrokers  string
	eventsTopic    string
}

const serveLongDesc string = `Run the research dashboard server.

The dashboard accepts research requests over HTTP, runs them against the
context platform, persists finished reports, and publishes a report event
for each one. Reports are browsable from the built-in web UI.

Requires ALCHEMYST_API_KEY and GEMINI_API_KEY.

Examples:
  alembic serve
  alembic serve --listen :9000 --sqlite reports.db
  alembic serve --events-provider kafka --events-brokers localhost:9092`

const serveShortDesc string = "Run the research dashboard server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagDashboardListen,
				config.FlagResearchTimeout,
				config.FlagPersona,
				config.FlagBaseURL,
				config.FlagGeminiModel,
				config.FlagSQLite,
				config.FlagEventsProvider,
				config.FlagEventsBrokers,
				config.FlagEventsTopic,
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

	config.AddStringFlag(cmd, config.Flags, config.FlagDashboardListen, &cmder.listen)
	config.AddUintFlag(cmd, config.Flags, config.FlagResearchTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, config.Flags, config.FlagPersona, &cmder.persona)
	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagGeminiModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlite)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsProvider, &cmder.eventsProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsBrokers, &cmder.eventsBrokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsTopic, &cmder.eventsTopic)

	return cmd
}

func (c *serveCommander) run() error {
	log := logger.New(logger.WithJSON(true), logger.WithDebug(c.debug))
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

	server := dashboard.NewServer(dashboard.Config{
		ListenAddr:      c.cfg.Dashboard.Listen,
		ResearchTimeout: time.Duration(c.cfg.Dashboard.ResearchTimeoutSeconds) * time.Second,
		Persona:         c.cfg.Platform.Persona,
	}, researcher, storer, publisher, log)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("dashboard server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}
