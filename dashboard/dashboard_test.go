package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hexlockco/alembic/pkg/eventstream"
	"github.com/hexlockco/alembic/pkg/eventstream/nop"
	"github.com/hexlockco/alembic/pkg/logger"
	"github.com/hexlockco/alembic/pkg/store"
	"github.com/hexlockco/alembic/pkg/store/inmemory"
	"github.com/hexlockco/alembic/pkg/stream"
)

func TestDashboard(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dashboard Suite")
}

// fakeResearcher returns a canned report after an optional delay, honoring
// context cancellation the way the real agent's HTTP calls do.
type fakeResearcher struct {
	report string
	err    error
	delay  time.Duration
}

func (f *fakeResearcher) Research(ctx context.Context, _ string, _ stream.Callback) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.report, f.err
}

// capturePublisher records published events.
type capturePublisher struct {
	events []*eventstream.ReportPersistedEvent
}

func (p *capturePublisher) PublishReport(_ context.Context, event *eventstream.ReportPersistedEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func researchJSON(query string) *http.Request {
	body, _ := json.Marshal(map[string]string{"query": query})
	req, _ := http.NewRequest(http.MethodPost, "/v1/research", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

var _ = Describe("Server", func() {
	var (
		server     *Server
		inMem      *inmemory.Driver
		researcher *fakeResearcher
		publisher  *capturePublisher
	)

	BeforeEach(func() {
		inMem = inmemory.NewDriver()
		researcher = &fakeResearcher{report: "## Acme Corp\n\nAcme makes anvils."}
		publisher = &capturePublisher{}
		server = NewServer(
			Config{ListenAddr: ":0", Persona: "maya"},
			researcher,
			inMem,
			publisher,
			logger.Nop(),
		)
	})

	Describe("GET /healthz", func() {
		It("returns ok", func() {
			req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
		})
	})

	Describe("GET /", func() {
		It("serves the dashboard page", func() {
			req, _ := http.NewRequest(http.MethodGet, "/", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/html"))

			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(ContainSubstring("Alembic"))
		})
	})

	Describe("POST /v1/research", func() {
		It("runs the query, persists the report, and publishes an event", func() {
			resp, err := server.app.Test(researchJSON("acme corp"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body researchResponse
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body.ID).NotTo(BeEmpty())
			Expect(body.Query).To(Equal("acme corp"))
			Expect(body.Report).To(ContainSubstring("Acme makes anvils."))

			record, err := inMem.Get(context.Background(), body.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Kind).To(Equal(store.KindResearch))
			Expect(record.Content).To(Equal(body.Report))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].Report.RecordID).To(Equal(body.ID))
			Expect(publisher.events[0].Source.Surface).To(Equal("dashboard"))
		})

		It("rejects an empty query", func() {
			resp, err := server.app.Test(researchJSON(""))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("rejects a malformed body", func() {
			req, _ := http.NewRequest(http.MethodPost, "/v1/research", bytes.NewReader([]byte("{not json")))
			req.Header.Set("Content-Type", "application/json")
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 504 when the deadline expires", func() {
			researcher.delay = 200 * time.Millisecond
			slow := NewServer(
				Config{ListenAddr: ":0", ResearchTimeout: 20 * time.Millisecond},
				researcher,
				inMem,
				nop.NewPublisher(),
				logger.Nop(),
			)

			resp, err := slow.app.Test(researchJSON("acme corp"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusGatewayTimeout))

			records, err := inMem.List(context.Background(), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})

		It("returns 502 when research fails", func() {
			researcher.err = io.ErrUnexpectedEOF
			resp, err := server.app.Test(researchJSON("acme corp"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadGateway))
		})
	})

	Describe("GET /v1/reports", func() {
		It("lists persisted reports newest first without bodies", func() {
			base := time.Now().UTC()
			for i, query := range []string{"first", "second"} {
				record := &store.Record{
					ID:        query,
					Kind:      store.KindResearch,
					Query:     query,
					Content:   "body of " + query,
					CreatedAt: base.Add(time.Duration(i) * time.Minute),
				}
				Expect(inMem.Put(context.Background(), record)).To(Succeed())
			}

			req, _ := http.NewRequest(http.MethodGet, "/v1/reports", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body struct {
				Count   int             `json:"count"`
				Reports []reportSummary `json:"reports"`
			}
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body.Count).To(Equal(2))
			Expect(body.Reports[0].Query).To(Equal("second"))
			Expect(body.Reports[0].ContentSize).To(Equal(len("body of second")))
		})
	})

	Describe("GET /v1/reports/:id", func() {
		It("returns the full record", func() {
			record := &store.Record{
				ID:        "rec-1",
				Kind:      store.KindResearch,
				Query:     "acme",
				Content:   "full report body",
				CreatedAt: time.Now().UTC(),
			}
			Expect(inMem.Put(context.Background(), record)).To(Succeed())

			req, _ := http.NewRequest(http.MethodGet, "/v1/reports/rec-1", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body reportResponse
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body.Content).To(Equal("full report body"))
		})

		It("returns 404 for unknown IDs", func() {
			req, _ := http.NewRequest(http.MethodGet, "/v1/reports/missing", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})
	})
})
