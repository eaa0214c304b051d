package insights_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hexlockco/alembic/pkg/dataset"
	"github.com/hexlockco/alembic/pkg/insights"
)

func TestInsights(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Insights Suite")
}

type promptRecorder struct {
	prompts  []string
	response string
}

func (p *promptRecorder) Generate(_ context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	return p.response, nil
}

const insightsCSV = `product,units,revenue
widget,10,100
gadget,20,210
widget,30,290
gizmo,40,410
`

var _ = Describe("Insights", func() {
	var (
		tmpDir string
		frame  *dataset.Frame
		rec    *promptRecorder
		ins    *insights.Insights
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "insights-test-*")
		Expect(err).NotTo(HaveOccurred())

		path := filepath.Join(tmpDir, "data.csv")
		Expect(os.WriteFile(path, []byte(insightsCSV), 0o644)).To(Succeed())
		frame, err = dataset.Load(path)
		Expect(err).NotTo(HaveOccurred())

		rec = &promptRecorder{response: "generated insight"}
		ins = insights.New(rec)
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("Summary", func() {
		It("includes shape, columns, and sample rows in the prompt", func() {
			out, err := ins.Summary(context.Background(), frame)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("generated insight"))

			Expect(rec.prompts).To(HaveLen(1))
			prompt := rec.prompts[0]
			Expect(prompt).To(ContainSubstring("Total rows: 4"))
			Expect(prompt).To(ContainSubstring("Total columns: 3"))
			Expect(prompt).To(ContainSubstring("product, units, revenue"))
			Expect(prompt).To(ContainSubstring("widget"))
			Expect(prompt).To(ContainSubstring("Executive Summary"))
		})
	})

	Describe("DetectPatterns", func() {
		It("includes numeric statistics for numeric columns", func() {
			_, err := ins.DetectPatterns(context.Background(), frame, "units")
			Expect(err).NotTo(HaveOccurred())

			prompt := rec.prompts[0]
			Expect(prompt).To(ContainSubstring("**COLUMN:** units"))
			Expect(prompt).To(ContainSubstring("mean"))
			Expect(prompt).To(ContainSubstring("Pattern Identification"))
		})

		It("includes unique counts for categorical columns", func() {
			_, err := ins.DetectPatterns(context.Background(), frame, "product")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.prompts[0]).To(ContainSubstring("Unique values: 3"))
		})

		It("errors on unknown columns", func() {
			_, err := ins.DetectPatterns(context.Background(), frame, "nope")
			Expect(err).To(MatchError(dataset.ErrColumnNotFound))
			Expect(rec.prompts).To(BeEmpty())
		})
	})

	Describe("ExplainCorrelation", func() {
		It("includes the coefficient for numeric pairs", func() {
			_, err := ins.ExplainCorrelation(context.Background(), frame, "units", "revenue")
			Expect(err).NotTo(HaveOccurred())

			prompt := rec.prompts[0]
			Expect(prompt).To(ContainSubstring("Correlation coefficient:"))
			Expect(prompt).To(ContainSubstring("Causation vs Correlation"))
		})

		It("notes categorical relationships for non-numeric pairs", func() {
			_, err := ins.ExplainCorrelation(context.Background(), frame, "product", "revenue")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.prompts[0]).To(ContainSubstring("Non-numeric data"))
		})

		It("errors when a column is missing", func() {
			_, err := ins.ExplainCorrelation(context.Background(), frame, "units", "nope")
			Expect(err).To(MatchError(dataset.ErrColumnNotFound))
		})
	})

	Describe("AnswerQuery", func() {
		It("embeds the question and dataset context", func() {
			_, err := ins.AnswerQuery(context.Background(), frame, "which product sells best?")
			Expect(err).NotTo(HaveOccurred())

			prompt := rec.prompts[0]
			Expect(prompt).To(ContainSubstring("which product sells best?"))
			Expect(prompt).To(ContainSubstring("4 rows x 3 columns"))
		})
	})

	Describe("Recommendations", func() {
		It("embeds the analysis results", func() {
			analysis := &dataset.Analysis{
				Metadata:      frame.Metadata(),
				BasicStats:    frame.Summarize(),
				MissingValues: frame.AnalyzeMissing(),
			}

			_, err := ins.Recommendations(context.Background(), frame, analysis)
			Expect(err).NotTo(HaveOccurred())

			prompt := rec.prompts[0]
			Expect(prompt).To(ContainSubstring("Top 3 Recommendations"))
			Expect(prompt).To(ContainSubstring("basic_stats"))
		})
	})
})
