package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hexlockco/alembic/pkg/eventstream"
	"github.com/hexlockco/alembic/pkg/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

type researchRequest struct {
	Query string `json:"query"`
}

type researchResponse struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Report    string    `json:"report"`
	CreatedAt time.Time `json:"created_at"`
}

// reportSummary is the listing shape; the body is only served per-record.
type reportSummary struct {
	ID          string     `json:"id"`
	Kind        store.Kind `json:"kind"`
	Query       string     `json:"query"`
	ContentSize int        `json:"content_size"`
	CreatedAt   time.Time  `json:"created_at"`
}

type reportResponse struct {
	ID        string     `json:"id"`
	Kind      store.Kind `json:"kind"`
	Query     string     `json:"query"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
}

// handleHealthz returns a simple health check response.
func (s *Server) handleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleResearch runs one research query synchronously under the configured
// deadline. Deadline expiry cancels the outbound call and maps to 504.
func (s *Server) handleResearch(c *fiber.Ctx) error {
	var req researchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "query is required"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), s.config.researchTimeout())
	defer cancel()

	report, err := s.researcher.Research(ctx, req.Query, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(errorResponse{Error: "research timed out"})
		}
		s.logger.Error("research failed", "query", req.Query, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(errorResponse{Error: "research failed"})
	}

	record := &store.Record{
		ID:        uuid.NewString(),
		Kind:      store.KindResearch,
		Query:     req.Query,
		Content:   report,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.storer.Put(c.Context(), record); err != nil {
		s.logger.Error("failed to persist report", "id", record.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to persist report"})
	}

	event := eventstream.NewReportPersistedEvent(uuid.NewString(), s.config.Persona, "dashboard", record)
	if err := s.publisher.PublishReport(c.Context(), event); err != nil {
		// The report is already stored; a publish failure is not the
		// client's problem.
		s.logger.Warn("failed to publish report event", "id", record.ID, "error", err)
	}

	return c.JSON(researchResponse{
		ID:        record.ID,
		Query:     record.Query,
		Report:    record.Content,
		CreatedAt: record.CreatedAt,
	})
}

// handleListReports returns persisted report summaries, newest first.
func (s *Server) handleListReports(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	records, err := s.storer.List(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to list reports"})
	}

	summaries := make([]reportSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, reportSummary{
			ID:          record.ID,
			Kind:        record.Kind,
			Query:       record.Query,
			ContentSize: len(record.Content),
			CreatedAt:   record.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"count":   len(summaries),
		"reports": summaries,
	})
}

// handleGetReport returns a single report by its ID.
func (s *Server) handleGetReport(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "id parameter required"})
	}

	record, err := s.storer.Get(c.Context(), id)
	if err != nil {
		var notFound store.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to load report"})
	}

	return c.JSON(reportResponse{
		ID:        record.ID,
		Kind:      record.Kind,
		Query:     record.Query,
		Content:   record.Content,
		CreatedAt: record.CreatedAt,
	})
}
