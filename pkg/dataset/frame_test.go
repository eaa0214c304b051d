package dataset_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hexlockco/alembic/pkg/dataset"
)

// sampleCSV mirrors a small employee dataset: two missing cells (one age,
// one salary), two numeric columns, two categorical.
const sampleCSV = `name,age,salary,department
Alice,30,85000,Engineering
Bob,25,62000,Sales
Carol,,73000,Engineering
Dave,41,,Sales
Eve,35,91000,Engineering
`

const sampleJSON = `[
  {"id": 1, "value": 10.5, "label": "a"},
  {"id": 2, "value": 20.25, "label": "b"},
  {"id": 3, "value": null, "label": "c"}
]`

var _ = Describe("Frame", func() {
	var tmpDir string

	writeFile := func(name, content string) string {
		path := filepath.Join(tmpDir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dataset-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("Load", func() {
		It("loads CSV with inferred column kinds", func() {
			f, err := dataset.Load(writeFile("data.csv", sampleCSV))
			Expect(err).NotTo(HaveOccurred())

			Expect(f.Rows()).To(Equal(5))
			Expect(f.Columns()).To(Equal([]string{"name", "age", "salary", "department"}))

			Expect(f.Kind("age")).To(Equal(dataset.KindNumeric))
			Expect(f.Kind("salary")).To(Equal(dataset.KindNumeric))
			Expect(f.Kind("name")).To(Equal(dataset.KindCategorical))
			Expect(f.Kind("department")).To(Equal(dataset.KindCategorical))

			meta := f.Metadata()
			Expect(meta.FileType).To(Equal("csv"))
			Expect(meta.Rows).To(Equal(5))
			Expect(meta.Columns).To(Equal(4))
		})

		It("loads JSON preserving key order and treating null as missing", func() {
			f, err := dataset.Load(writeFile("data.json", sampleJSON))
			Expect(err).NotTo(HaveOccurred())

			Expect(f.Rows()).To(Equal(3))
			Expect(f.Columns()).To(Equal([]string{"id", "value", "label"}))
			Expect(f.Kind("value")).To(Equal(dataset.KindNumeric))

			values, err := f.Numeric("value")
			Expect(err).NotTo(HaveOccurred())
			Expect(values).To(Equal([]float64{10.5, 20.25}))
		})

		It("detects datetime columns", func() {
			f, err := dataset.Load(writeFile("dates.csv", "day,amount\n2024-01-01,5\n2024-01-08,7\n2024-01-15,6\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Kind("day")).To(Equal(dataset.KindDatetime))
			Expect(f.ColumnsOfKind(dataset.KindDatetime)).To(Equal([]string{"day"}))

			times, err := f.Times("day")
			Expect(err).NotTo(HaveOccurred())
			Expect(times).To(HaveLen(3))
		})

		It("rejects unsupported formats", func() {
			_, err := dataset.Load(writeFile("data.parquet", "whatever"))
			Expect(err).To(MatchError(dataset.ErrUnsupportedFormat))
		})

		It("rejects missing files", func() {
			_, err := dataset.Load(filepath.Join(tmpDir, "absent.csv"))
			Expect(err).To(HaveOccurred())
		})

		It("rejects empty datasets", func() {
			_, err := dataset.Load(writeFile("empty.csv", "a,b\n"))
			Expect(err).To(MatchError(dataset.ErrEmptyDataset))
		})
	})

	Describe("Numeric", func() {
		It("skips missing cells", func() {
			f, err := dataset.Load(writeFile("data.csv", sampleCSV))
			Expect(err).NotTo(HaveOccurred())

			ages, err := f.Numeric("age")
			Expect(err).NotTo(HaveOccurred())
			Expect(ages).To(Equal([]float64{30, 25, 41, 35}))
		})

		It("rejects categorical columns", func() {
			f, err := dataset.Load(writeFile("data.csv", sampleCSV))
			Expect(err).NotTo(HaveOccurred())

			_, err = f.Numeric("name")
			Expect(err).To(MatchError(dataset.ErrNotNumeric))
		})

		It("rejects unknown columns", func() {
			f, err := dataset.Load(writeFile("data.csv", sampleCSV))
			Expect(err).NotTo(HaveOccurred())

			_, err = f.Numeric("nope")
			Expect(err).To(MatchError(dataset.ErrColumnNotFound))
		})
	})
})
