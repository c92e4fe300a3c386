// Package tabular holds the uniform table representation every extraction
// strategy normalizes into: a header plus string-valued rows.
package tabular

import (
	"fmt"
	"strings"
)

// Table is an in-memory table with a header and string cells. Extraction does
// no type inference; values keep their string representation end to end.
type Table struct {
	Header []string
	Rows   [][]string
}

// New builds a Table, padding or truncating each row to the header width so
// downstream consumers can index cells safely.
func New(header []string, rows [][]string) *Table {
	t := &Table{Header: append([]string(nil), header...)}
	for _, r := range rows {
		t.Rows = append(t.Rows, fitRow(r, len(header)))
	}
	return t
}

func fitRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColCount returns the number of columns.
func (t *Table) ColCount() int { return len(t.Header) }

// Empty reports whether the table has no usable shape.
func (t *Table) Empty() bool {
	return t == nil || len(t.Header) == 0 || len(t.Rows) == 0
}

// Head returns a copy limited to the first n rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Header: t.Header, Rows: t.Rows[:n]}
}

// Reheader promotes row h to be the header and keeps only the rows strictly
// after it, with indices contiguous from 0. The receiver is not modified.
func (t *Table) Reheader(h int) (*Table, error) {
	if h < 0 || h >= len(t.Rows) {
		return nil, fmt.Errorf("header row %d out of range (table has %d rows)", h, len(t.Rows))
	}
	header := append([]string(nil), t.Rows[h]...)
	rows := make([][]string, 0, len(t.Rows)-h-1)
	for _, r := range t.Rows[h+1:] {
		rows = append(rows, append([]string(nil), r...))
	}
	return &Table{Header: header, Rows: rows}, nil
}

// TrimmedHeader returns the header with surrounding whitespace removed per
// column, leaving the receiver's original names untouched.
func (t *Table) TrimmedHeader() []string {
	out := make([]string, len(t.Header))
	for i, h := range t.Header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// Records renders the rows as one map per row keyed by header, the shape
// completion-service prompts embed as sample data.
func (t *Table) Records(limit int) []map[string]string {
	if limit > len(t.Rows) {
		limit = len(t.Rows)
	}
	recs := make([]map[string]string, 0, limit)
	for _, row := range t.Rows[:limit] {
		rec := make(map[string]string, len(t.Header))
		for i, col := range t.Header {
			rec[col] = row[i]
		}
		recs = append(recs, rec)
	}
	return recs
}

// Concat appends the rows of all tables under the first table's header.
// Rows from tables with a different width are padded or truncated; callers
// that need column alignment should normalize headers first.
func Concat(tables []*Table) *Table {
	var out *Table
	for _, t := range tables {
		if t.Empty() {
			continue
		}
		if out == nil {
			out = New(t.Header, t.Rows)
			continue
		}
		for _, r := range t.Rows {
			out.Rows = append(out.Rows, fitRow(r, len(out.Header)))
		}
	}
	return out
}
