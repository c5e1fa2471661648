// Package tabular reads uploaded CSV and spreadsheet files into header-keyed
// tables and writes result sets back out as CSV or single-sheet workbooks.
package tabular

import (
	"io"
	"strings"

	"github.com/schollz/closestmatch"
)

// Table is a row-ordered sheet whose cells are addressed by the exact,
// case-sensitive header name.
type Table struct {
	Columns []string
	rows    [][]string
	index   map[string]int
}

// NewTable builds a table from a header and data rows. Short rows are padded
// and header names lose surrounding whitespace only.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(h)
		t.Columns = append(t.Columns, h)
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	for _, r := range rows {
		if isBlank(r) {
			continue
		}
		row := make([]string, len(header))
		copy(row, r)
		t.rows = append(t.rows, row)
	}
	return t
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Get returns the trimmed cell of row i under col, or "" when the column is
// absent.
func (t *Table) Get(i int, col string) string {
	j, ok := t.index[col]
	if !ok || i < 0 || i >= len(t.rows) {
		return ""
	}
	return strings.TrimSpace(t.rows[i][j])
}

// Row returns row i keyed by column name.
func (t *Table) Row(i int) map[string]string {
	out := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		out[c] = t.Get(i, c)
	}
	return out
}

// Preview returns up to n leading rows keyed by column name.
func (t *Table) Preview(n int) []map[string]string {
	n = min(n, len(t.rows))
	out := make([]map[string]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, t.Row(i))
	}
	return out
}

// Missing returns the required columns absent from the header, in the order
// they were asked for.
func (t *Table) Missing(required ...string) []string {
	var missing []string
	for _, c := range required {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Suggest maps each missing column to the closest present header, skipping
// columns with no plausible match.
func (t *Table) Suggest(missing []string) map[string]string {
	if len(missing) == 0 || len(t.Columns) == 0 {
		return nil
	}
	cm := closestmatch.New(t.Columns, []int{2, 3})
	out := make(map[string]string)
	for _, m := range missing {
		if s := cm.Closest(m); s != "" && s != m {
			out[m] = s
		}
	}
	return out
}

// Records exposes the table as header plus trimmed rows for record mappers.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.rows)+1)
	out = append(out, append([]string(nil), t.Columns...))
	for _, r := range t.rows {
		rec := make([]string, len(r))
		for i, c := range r {
			rec[i] = strings.TrimSpace(c)
		}
		out = append(out, rec)
	}
	return out
}

// Reader returns a csv-style reader over Records.
func (t *Table) Reader() *RecordReader {
	return &RecordReader{records: t.Records()}
}

// RecordReader replays table records through the Read/ReadAll pair that
// csv.Reader offers.
type RecordReader struct {
	records [][]string
	pos     int
}

func (r *RecordReader) Read() ([]string, error) {
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	rec := r.records[r.pos]
	r.pos++
	return rec, nil
}

func (r *RecordReader) ReadAll() ([][]string, error) {
	rest := r.records[r.pos:]
	r.pos = len(r.records)
	return rest, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
