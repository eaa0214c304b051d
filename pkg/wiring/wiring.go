// Package wiring assembles the application components the commands and the
// dashboard share: the platform client, the Gemini client, the research
// agent, the report store, and the event publisher. Construction lives here
// so every command builds them the same way from the same config.
package wiring

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hexlockco/alembic/pkg/agent"
	"github.com/hexlockco/alembic/pkg/config"
	"github.com/hexlockco/alembic/pkg/eventstream"
	"github.com/hexlockco/alembic/pkg/eventstream/kafka"
	"github.com/hexlockco/alembic/pkg/eventstream/nop"
	"github.com/hexlockco/alembic/pkg/gemini"
	"github.com/hexlockco/alembic/pkg/platform"
	"github.com/hexlockco/alembic/pkg/store"
	"github.com/hexlockco/alembic/pkg/store/inmemory"
	"github.com/hexlockco/alembic/pkg/store/sqlite"
)

// NewPlatform builds the context platform client from config and credentials.
func NewPlatform(cfg *config.Config, creds *config.Credentials, log *slog.Logger) (*platform.Client, error) {
	apiKey, err := creds.RequirePlatformKey()
	if err != nil {
		return nil, err
	}

	return platform.New(platform.Config{
		BaseURL: cfg.Platform.BaseURL,
		APIKey:  apiKey,
		Persona: cfg.Platform.Persona,
		Timeout: time.Duration(cfg.Platform.TimeoutSeconds) * time.Second,
	}, log)
}

// NewGemini builds the Gemini client from config and credentials.
func NewGemini(ctx context.Context, cfg *config.Config, creds *config.Credentials) (*gemini.Client, error) {
	apiKey, err := creds.RequireGeminiKey()
	if err != nil {
		return nil, err
	}

	return gemini.New(ctx, gemini.Config{
		APIKey:      apiKey,
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
	})
}

// NewAgent builds the research agent: platform search and streaming plus
// Gemini text generation.
func NewAgent(ctx context.Context, cfg *config.Config, creds *config.Credentials, log *slog.Logger) (*agent.Agent, error) {
	plat, err := NewPlatform(cfg, creds, log)
	if err != nil {
		return nil, fmt.Errorf("building platform client: %w", err)
	}

	gem, err := NewGemini(ctx, cfg, creds)
	if err != nil {
		return nil, fmt.Errorf("building gemini client: %w", err)
	}

	return agent.New(plat, plat, gem, log), nil
}

// NewStore returns the SQLite driver when a path is configured and the
// in-memory driver otherwise.
func NewStore(cfg *config.Config, log *slog.Logger) (store.Driver, error) {
	if cfg.Store.SQLitePath != "" {
		driver, err := sqlite.NewDriver(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening report store: %w", err)
		}
		log.Debug("using SQLite report store", "path", cfg.Store.SQLitePath)
		return driver, nil
	}

	log.Debug("using in-memory report store")
	return inmemory.NewDriver(), nil
}

// NewPublisher returns the configured event publisher. Provider "nop" (or
// empty) disables publishing.
func NewPublisher(cfg *config.Config) (eventstream.Publisher, error) {
	switch cfg.Events.Provider {
	case "", "nop":
		return nop.NewPublisher(), nil
	case "kafka":
		brokers := splitBrokers(cfg.Events.Brokers)
		return kafka.NewPublisher(brokers, cfg.Events.Topic)
	default:
		return nil, fmt.Errorf("unknown events provider %q", cfg.Events.Provider)
	}
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
