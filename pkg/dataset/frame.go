// Package dataset loads tabular data from CSV, JSON, and Excel files into an
// in-memory frame and computes the statistical analyses the CLI and reports
// are built on: summaries, outlier detection, correlation, missing-value
// analysis, and time-series detection.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("dataset: unsupported file format")
	ErrColumnNotFound    = errors.New("dataset: column not found")
	ErrNotNumeric        = errors.New("dataset: column is not numeric")
	ErrNoNumericColumns  = errors.New("dataset: no numeric columns found")
	ErrEmptyDataset      = errors.New("dataset: no rows found")
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindDatetime    Kind = "datetime"
)

// dateLayouts are tried in order when inferring datetime columns.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
}

// Metadata describes a loaded file.
type Metadata struct {
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	Rows     int    `json:"rows"`
	Columns  int    `json:"columns"`
}

// Frame is an immutable columnar view over the loaded rows. Missing cells
// are empty strings.
type Frame struct {
	meta    Metadata
	columns []string
	kinds   map[string]Kind
	// cells is row-major; every row has len(columns) entries.
	cells [][]string
}

// Load reads a CSV, JSON, or Excel file into a Frame. The format is chosen
// by file extension.
func Load(path string) (*Frame, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))

	var (
		columns []string
		cells   [][]string
		err     error
	)

	switch ext {
	case ".csv":
		columns, cells, err = loadCSV(path)
	case ".json":
		columns, cells, err = loadJSON(path)
	case ".xlsx", ".xls":
		columns, cells, err = loadExcel(path)
	default:
		return nil, fmt.Errorf("%w: %q (supported: .csv, .json, .xlsx, .xls)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if len(cells) == 0 {
		return nil, ErrEmptyDataset
	}

	f := &Frame{
		meta: Metadata{
			FilePath: path,
			FileName: filepath.Base(path),
			FileType: strings.TrimPrefix(ext, "."),
			Rows:     len(cells),
			Columns:  len(columns),
		},
		columns: columns,
		cells:   cells,
	}
	f.kinds = f.inferKinds()

	return f, nil
}

// Metadata returns the file metadata captured at load time.
func (f *Frame) Metadata() Metadata { return f.meta }

// Rows reports the number of data rows.
func (f *Frame) Rows() int { return len(f.cells) }

// Columns returns the column names in file order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Kind returns the inferred kind of a column.
func (f *Frame) Kind(column string) (Kind, error) {
	k, ok := f.kinds[column]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	return k, nil
}

// HasColumn reports whether the frame contains column.
func (f *Frame) HasColumn(column string) bool {
	_, ok := f.kinds[column]
	return ok
}

// ColumnsOfKind returns the columns of the given kind, in file order.
func (f *Frame) ColumnsOfKind(kind Kind) []string {
	var out []string
	for _, c := range f.columns {
		if f.kinds[c] == kind {
			out = append(out, c)
		}
	}
	return out
}

// Cells returns the raw values of a column, including empty strings for
// missing cells.
func (f *Frame) Cells(column string) ([]string, error) {
	idx := f.index(column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}

	out := make([]string, len(f.cells))
	for i, row := range f.cells {
		out[i] = row[idx]
	}
	return out, nil
}

// Numeric returns the parsed non-missing values of a numeric column, in row
// order.
func (f *Frame) Numeric(column string) ([]float64, error) {
	kind, err := f.Kind(column)
	if err != nil {
		return nil, err
	}
	if kind != KindNumeric {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, column, kind)
	}

	idx := f.index(column)
	out := make([]float64, 0, len(f.cells))
	for _, row := range f.cells {
		cell := row[idx]
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Times returns the parsed non-missing values of a datetime column.
func (f *Frame) Times(column string) ([]time.Time, error) {
	kind, err := f.Kind(column)
	if err != nil {
		return nil, err
	}
	if kind != KindDatetime {
		return nil, fmt.Errorf("dataset: column %q is not datetime", column)
	}

	idx := f.index(column)
	out := make([]time.Time, 0, len(f.cells))
	for _, row := range f.cells {
		if row[idx] == "" {
			continue
		}
		if t, ok := parseTime(row[idx]); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Head returns the first n rows as column-name keyed maps, for prompt and
// preview use.
func (f *Frame) Head(n int) []map[string]string {
	if n > len(f.cells) {
		n = len(f.cells)
	}

	out := make([]map[string]string, n)
	for i := 0; i < n; i++ {
		row := make(map[string]string, len(f.columns))
		for j, col := range f.columns {
			row[col] = f.cells[i][j]
		}
		out[i] = row
	}
	return out
}

// PairedNumeric returns the values of two numeric columns restricted to rows
// where both are present, keeping the pairing intact.
func (f *Frame) PairedNumeric(col1, col2 string) ([]float64, []float64, error) {
	for _, c := range []string{col1, col2} {
		kind, err := f.Kind(c)
		if err != nil {
			return nil, nil, err
		}
		if kind != KindNumeric {
			return nil, nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, c, kind)
		}
	}

	i1, i2 := f.index(col1), f.index(col2)
	var xs, ys []float64
	for _, row := range f.cells {
		if row[i1] == "" || row[i2] == "" {
			continue
		}
		x, err1 := strconv.ParseFloat(row[i1], 64)
		y, err2 := strconv.ParseFloat(row[i2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}

func (f *Frame) index(column string) int {
	for i, c := range f.columns {
		if c == column {
			return i
		}
	}
	return -1
}

// inferKinds classifies each column: numeric when every non-missing cell
// parses as a float, datetime when every non-missing cell parses with a
// known layout, categorical otherwise. All-missing columns are categorical.
func (f *Frame) inferKinds() map[string]Kind {
	kinds := make(map[string]Kind, len(f.columns))

	for i, col := range f.columns {
		numeric, datetime, seen := true, true, false

		for _, row := range f.cells {
			cell := row[i]
			if cell == "" {
				continue
			}
			seen = true

			if numeric {
				if _, err := strconv.ParseFloat(cell, 64); err != nil {
					numeric = false
				}
			}
			if datetime {
				if _, ok := parseTime(cell); !ok {
					datetime = false
				}
			}
			if !numeric && !datetime {
				break
			}
		}

		switch {
		case seen && numeric:
			kinds[col] = KindNumeric
		case seen && datetime:
			kinds[col] = KindDatetime
		default:
			kinds[col] = KindCategorical
		}
	}

	return kinds
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func loadCSV(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyDataset
	}

	return records[0], records[1:], nil
}

// loadJSON expects an array of flat objects. Column order follows the first
// object's key order; keys first seen in later objects are appended.
func loadJSON(path string) ([]string, [][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, nil, fmt.Errorf("parsing JSON: %w", err)
	}

	columns, err := jsonColumnOrder(raw, rows)
	if err != nil {
		return nil, nil, err
	}

	cells := make([][]string, len(rows))
	for i, obj := range rows {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = jsonCell(obj[col])
		}
		cells[i] = row
	}

	return columns, cells, nil
}

// jsonColumnOrder recovers document key order by re-tokenizing the raw
// bytes; map iteration order would scramble the columns.
func jsonColumnOrder(raw []byte, rows []map[string]any) ([]string, error) {
	var columns []string
	seen := map[string]bool{}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	depth := 0
	expectKey := false

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				depth++
				expectKey = t == '{' && depth == 2
			case '}', ']':
				depth--
				expectKey = false
			}
		case string:
			if expectKey && depth == 2 {
				if !seen[t] {
					seen[t] = true
					columns = append(columns, t)
				}
				// The next token is the value; skip it wholesale.
				var discard any
				if err := dec.Decode(&discard); err != nil {
					return nil, fmt.Errorf("parsing JSON: %w", err)
				}
			}
		}
	}

	if len(columns) == 0 && len(rows) > 0 {
		return nil, errors.New("dataset: JSON rows have no keys")
	}

	return columns, nil
}

func jsonCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func loadExcel(path string) ([]string, [][]string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptyDataset
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyDataset
	}

	columns := rows[0]

	// excelize trims trailing empty cells per row; re-pad to header width.
	cells := make([][]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		row := make([]string, len(columns))
		copy(row, r)
		cells = append(cells, row)
	}

	return columns, cells, nil
}
