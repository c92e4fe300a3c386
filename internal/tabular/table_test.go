package tabular

import (
	"strings"
	"testing"
)

func TestNewPadsShortRows(t *testing.T) {
	tbl := New([]string{"a", "b", "c"}, [][]string{{"1"}, {"1", "2", "3", "4"}})
	if tbl.ColCount() != 3 {
		t.Fatalf("cols = %d, want 3", tbl.ColCount())
	}
	if len(tbl.Rows[0]) != 3 || tbl.Rows[0][2] != "" {
		t.Fatalf("short row not padded: %v", tbl.Rows[0])
	}
	if len(tbl.Rows[1]) != 3 {
		t.Fatalf("long row not truncated: %v", tbl.Rows[1])
	}
}

func TestReheader(t *testing.T) {
	tbl := New([]string{"c0", "c1"}, [][]string{
		{"junk", "junk"},
		{"Name", "Amount"},
		{"pens", "12"},
	})

	out, err := tbl.Reheader(1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Header[0] != "Name" || out.Header[1] != "Amount" {
		t.Fatalf("header = %v", out.Header)
	}
	if out.RowCount() != 1 || out.Rows[0][0] != "pens" {
		t.Fatalf("rows = %v, want only the row after the header", out.Rows)
	}
	// Receiver untouched.
	if tbl.RowCount() != 3 || tbl.Header[0] != "c0" {
		t.Fatal("Reheader modified the receiver")
	}
}

func TestReheaderOutOfRange(t *testing.T) {
	tbl := New([]string{"a"}, [][]string{{"1"}, {"2"}})
	for _, h := range []int{-1, 2, 10} {
		if _, err := tbl.Reheader(h); err == nil {
			t.Errorf("Reheader(%d) accepted an out-of-range row", h)
		}
	}
	if _, err := tbl.Reheader(5); err == nil || !strings.Contains(err.Error(), "table has 2 rows") {
		t.Fatalf("err = %v, want row count in message", err)
	}
}

func TestReheaderLastRowYieldsEmptyTable(t *testing.T) {
	tbl := New([]string{"a"}, [][]string{{"1"}, {"2"}})
	out, err := tbl.Reheader(1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Header[0] != "2" || out.RowCount() != 0 {
		t.Fatalf("got header=%v rows=%d, want header [2] and no rows", out.Header, out.RowCount())
	}
}

func TestTrimmedHeader(t *testing.T) {
	tbl := New([]string{"  Doc. Date ", "Amount"}, nil)
	trimmed := tbl.TrimmedHeader()
	if trimmed[0] != "Doc. Date" || trimmed[1] != "Amount" {
		t.Fatalf("trimmed = %v", trimmed)
	}
	if tbl.Header[0] != "  Doc. Date " {
		t.Fatal("TrimmedHeader modified the original header")
	}
}

func TestConcat(t *testing.T) {
	a := New([]string{"x", "y"}, [][]string{{"1", "2"}})
	b := New([]string{"x", "y"}, [][]string{{"3", "4"}, {"5", "6"}})
	out := Concat([]*Table{a, b})
	if out.RowCount() != 3 {
		t.Fatalf("rows = %d, want 3", out.RowCount())
	}
	if out.Rows[2][1] != "6" {
		t.Fatalf("last cell = %q, want 6", out.Rows[2][1])
	}
}

func TestHeadAndEmpty(t *testing.T) {
	tbl := New([]string{"a"}, [][]string{{"1"}, {"2"}, {"3"}})
	if got := tbl.Head(2).RowCount(); got != 2 {
		t.Fatalf("Head(2) rows = %d", got)
	}
	if got := tbl.Head(10).RowCount(); got != 3 {
		t.Fatalf("Head(10) rows = %d", got)
	}
	if tbl.Empty() {
		t.Fatal("populated table reported empty")
	}
	var nilTable *Table
	if !nilTable.Empty() {
		t.Fatal("nil table must report empty")
	}
	if !New(nil, nil).Empty() {
		t.Fatal("zero table must report empty")
	}
}

func TestMarkdownPreview(t *testing.T) {
	tbl := New([]string{"Name", "Qty"}, [][]string{{"pens", "12"}, {"ink", "7"}})
	md := tbl.Markdown(1)
	if !strings.Contains(md, "Name") || !strings.Contains(md, "pens") {
		t.Fatalf("markdown missing content:\n%s", md)
	}
	if strings.Contains(md, "ink") {
		t.Fatalf("markdown exceeded row limit:\n%s", md)
	}
}
