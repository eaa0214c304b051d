package dataset_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hexlockco/alembic/pkg/dataset"
)

func loadCSV(dir, content string) *dataset.Frame {
	path := filepath.Join(dir, "data.csv")
	ExpectWithOffset(1, os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	f, err := dataset.Load(path)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return f
}

var _ = Describe("Analyses", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dataset-stats-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("Summarize", func() {
		It("reports shape, kinds, and missing counts", func() {
			f := loadCSV(tmpDir, sampleCSV)
			s := f.Summarize()

			Expect(s.Shape.Rows).To(Equal(5))
			Expect(s.Shape.Columns).To(Equal(4))
			Expect(s.NumericColumns).To(ConsistOf("age", "salary"))
			Expect(s.CategoricalColumns).To(ConsistOf("name", "department"))
			Expect(s.MissingValues["age"]).To(Equal(1))
			Expect(s.MissingValues["salary"]).To(Equal(1))
			Expect(s.MissingValues["name"]).To(BeZero())
			Expect(s.MissingPercentage["age"]).To(Equal(20.0))
		})

		It("computes describe-style numeric summaries", func() {
			f := loadCSV(tmpDir, "x\n1\n2\n3\n4\n5\n")
			s := f.Summarize()

			stats := s.NumericSummary["x"]
			Expect(stats.Count).To(Equal(5))
			Expect(stats.Mean).To(Equal(3.0))
			Expect(stats.Min).To(Equal(1.0))
			Expect(stats.Max).To(Equal(5.0))
			Expect(stats.Median).To(Equal(3.0))
			Expect(stats.Q25).To(Equal(2.0))
			Expect(stats.Q75).To(Equal(4.0))
			Expect(stats.Std).To(BeNumerically("~", 1.5811, 0.001))
		})

		It("ranks categorical top values by count", func() {
			f := loadCSV(tmpDir, sampleCSV)
			s := f.Summarize()

			dept := s.CategoricalSummary["department"]
			Expect(dept.UniqueCount).To(Equal(2))
			Expect(dept.TopValues[0].Value).To(Equal("Engineering"))
			Expect(dept.TopValues[0].Count).To(Equal(3))
		})
	})

	Describe("DetectOutliers", func() {
		It("flags IQR outliers with bounds", func() {
			f := loadCSV(tmpDir, "v\n10\n11\n12\n13\n14\n15\n100\n")
			report, err := f.DetectOutliers("v", dataset.MethodIQR)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Column).To(Equal("v"))
			Expect(report.Method).To(Equal("iqr"))
			Expect(report.TotalOutliers).To(Equal(1))
			Expect(report.OutlierValues).To(Equal([]float64{100}))
			Expect(report.Bounds).NotTo(BeNil())
			Expect(report.Bounds.Upper).To(BeNumerically("<", 100))
		})

		It("reports no z-score outliers in tight data", func() {
			f := loadCSV(tmpDir, "v\n10\n11\n12\n13\n14\n")
			report, err := f.DetectOutliers("v", dataset.MethodZScore)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Method).To(Equal("zscore"))
			Expect(report.TotalOutliers).To(BeZero())
			Expect(report.Bounds).To(BeNil())
		})

		It("rejects unknown methods", func() {
			f := loadCSV(tmpDir, "v\n1\n2\n")
			_, err := f.DetectOutliers("v", "mad")
			Expect(err).To(HaveOccurred())
		})

		It("rejects non-numeric columns", func() {
			f := loadCSV(tmpDir, sampleCSV)
			_, err := f.DetectOutliers("name", dataset.MethodIQR)
			Expect(err).To(MatchError(dataset.ErrNotNumeric))
		})
	})

	Describe("Correlate", func() {
		It("computes a symmetric pearson matrix with notable pairs", func() {
			f := loadCSV(tmpDir, "a,b,c\n1,2,9\n2,4,7\n3,6,5\n4,8,3\n5,10,1\n")
			report, err := f.Correlate(dataset.CorrPearson)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Method).To(Equal("pearson"))
			Expect(report.Matrix["a"]["b"]).To(BeNumerically("~", 1.0, 1e-9))
			Expect(report.Matrix["b"]["a"]).To(Equal(report.Matrix["a"]["b"]))
			Expect(report.Matrix["a"]["c"]).To(BeNumerically("~", -1.0, 1e-9))
			Expect(report.Matrix["a"]["a"]).To(Equal(1.0))

			Expect(report.TopPositive).NotTo(BeEmpty())
			Expect(report.TopPositive[0].Correlation).To(BeNumerically(">", 0))
			Expect(report.TopNegative).NotTo(BeEmpty())
			Expect(report.TopNegative[0].Correlation).To(BeNumerically("<", 0))
			Expect(report.Strong).To(HaveLen(3))
		})

		It("matches pearson on ranks for spearman with a monotonic relation", func() {
			f := loadCSV(tmpDir, "x,y\n1,1\n2,4\n3,9\n4,16\n5,25\n")
			r, err := f.CorrelatePair("x", "y", dataset.CorrSpearman)
			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(BeNumerically("~", 1.0, 1e-9))

			pearson, err := f.CorrelatePair("x", "y", dataset.CorrPearson)
			Expect(err).NotTo(HaveOccurred())
			Expect(pearson).To(BeNumerically("<", 1.0))
		})

		It("skips rows where either side is missing", func() {
			f := loadCSV(tmpDir, "x,y\n1,2\n2,\n3,6\n,8\n5,10\n")
			r, err := f.CorrelatePair("x", "y", dataset.CorrPearson)
			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("errors when the frame has no numeric columns", func() {
			f := loadCSV(tmpDir, "a,b\nx,y\nz,w\n")
			_, err := f.Correlate(dataset.CorrPearson)
			Expect(err).To(MatchError(dataset.ErrNoNumericColumns))
		})
	})

	Describe("AnalyzeMissing", func() {
		It("tallies missing cells and rows", func() {
			f := loadCSV(tmpDir, sampleCSV)
			report := f.AnalyzeMissing()

			Expect(report.TotalMissing).To(Equal(2))
			Expect(report.ColumnsWithMissing).To(HaveKey("age"))
			Expect(report.ColumnsWithMissing).To(HaveKey("salary"))
			Expect(report.ColumnsWithMissing).NotTo(HaveKey("name"))
			Expect(report.RowsWithMissing).To(Equal(2))
			Expect(report.RowsWithMissingPercentage).To(Equal(40.0))
			Expect(report.CompleteRows).To(Equal(3))
		})
	})

	Describe("SummarizeColumn", func() {
		It("summarizes a numeric column", func() {
			f := loadCSV(tmpDir, sampleCSV)
			s, err := f.SummarizeColumn("age")
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Kind).To(Equal(dataset.KindNumeric))
			Expect(s.TotalValues).To(Equal(5))
			Expect(s.MissingValues).To(Equal(1))
			Expect(s.UniqueValues).To(Equal(4))
			Expect(s.Numeric).NotTo(BeNil())
			Expect(s.Numeric.Mean).To(BeNumerically("~", 32.75, 0.001))
		})

		It("summarizes a categorical column", func() {
			f := loadCSV(tmpDir, sampleCSV)
			s, err := f.SummarizeColumn("department")
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Kind).To(Equal(dataset.KindCategorical))
			Expect(s.Numeric).To(BeNil())
			Expect(s.MostCommon).To(Equal("Engineering"))
		})

		It("errors on unknown columns", func() {
			f := loadCSV(tmpDir, sampleCSV)
			_, err := f.SummarizeColumn("nope")
			Expect(err).To(MatchError(dataset.ErrColumnNotFound))
		})
	})

	Describe("DetectTimeSeries", func() {
		It("returns nil when no datetime columns exist", func() {
			f := loadCSV(tmpDir, sampleCSV)
			report, err := f.DetectTimeSeries()
			Expect(err).NotTo(HaveOccurred())
			Expect(report).To(BeNil())
		})

		It("analyzes the range of a datetime column", func() {
			f := loadCSV(tmpDir, "day,v\n2024-01-01,1\n2024-01-15,2\n2024-01-08,3\n")
			report, err := f.DetectTimeSeries()
			Expect(err).NotTo(HaveOccurred())
			Expect(report).NotTo(BeNil())

			a := report.Analysis["day"]
			Expect(a.DateRangeDays).To(Equal(14))
			Expect(a.UniqueDates).To(Equal(3))
		})
	})

	Describe("Analysis export", func() {
		It("writes indented JSON", func() {
			f := loadCSV(tmpDir, sampleCSV)
			analysis := dataset.Analysis{
				Metadata:      f.Metadata(),
				BasicStats:    f.Summarize(),
				MissingValues: f.AnalyzeMissing(),
			}

			out := filepath.Join(tmpDir, "analysis.json")
			Expect(analysis.Export(out)).To(Succeed())

			data, err := os.ReadFile(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("\"metadata\""))
			Expect(string(data)).To(ContainSubstring("\"basic_stats\""))
		})
	})
})
