package dashboard

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/hexlockco/alembic/pkg/eventstream"
	"github.com/hexlockco/alembic/pkg/store"
	"github.com/hexlockco/alembic/pkg/stream"
)

// Researcher runs a research query, emitting progress events along the way.
// It is satisfied by agent.Agent.
type Researcher interface {
	Research(ctx context.Context, query string, cb stream.Callback) (string, error)
}

// Server is the dashboard HTTP server.
type Server struct {
	config     Config
	researcher Researcher
	storer     store.Driver
	publisher  eventstream.Publisher
	logger     *slog.Logger
	app        *fiber.App
}

// NewServer creates a new dashboard server. The storer and publisher are
// injected so the CLI can share them with other components.
func NewServer(config Config, researcher Researcher, storer store.Driver, publisher eventstream.Publisher, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:     config,
		researcher: researcher,
		storer:     storer,
		publisher:  publisher,
		logger:     logger,
		app:        app,
	}

	app.Get("/healthz", s.handleHealthz)
	app.Get("/", s.handleIndex)
	app.Post("/v1/research", s.handleResearch)
	app.Get("/v1/reports", s.handleListReports)
	app.Get("/v1/reports/:id", s.handleGetReport)

	return s
}

// Run starts the dashboard server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting dashboard server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the dashboard server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}
