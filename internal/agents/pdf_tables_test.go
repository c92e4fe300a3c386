package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/madhu-yavar/transaction-agent/internal/pdfdoc"
	"github.com/madhu-yavar/transaction-agent/internal/state"
)

func TestLayoutTablesAlignedColumns(t *testing.T) {
	text := "Invoice Summary\n" +
		"Item        Qty    Price\n" +
		"Pens        12     4.50\n" +
		"Notebooks   3      9.00\n" +
		"\n" +
		"Thank you for your business."

	tables := LayoutTables(text)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	tbl := tables[0]
	if tbl.ColCount() != 3 || tbl.RowCount() != 2 {
		t.Fatalf("shape = %dx%d, want 3 cols x 2 rows", tbl.ColCount(), tbl.RowCount())
	}
	if tbl.Header[0] != "Item" || tbl.Rows[1][2] != "9.00" {
		t.Fatalf("unexpected content: header=%v rows=%v", tbl.Header, tbl.Rows)
	}
}

func TestLayoutTablesColumnCountChangeStartsNewBlock(t *testing.T) {
	text := "A   B\n1   2\nX   Y   Z\n7   8   9\n10  11  12"
	tables := LayoutTables(text)
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}
	if tables[0].ColCount() != 2 || tables[1].ColCount() != 3 {
		t.Fatalf("col counts = %d, %d", tables[0].ColCount(), tables[1].ColCount())
	}
}

func TestLayoutTablesRejectsShortBlocks(t *testing.T) {
	// A single aligned line is not a table, and neither is prose.
	if got := LayoutTables("Item    Qty\nplain paragraph text here"); len(got) != 0 {
		t.Fatalf("got %d tables, want 0", len(got))
	}
	if got := LayoutTables(""); len(got) != 0 {
		t.Fatalf("got %d tables from empty text, want 0", len(got))
	}
}

func TestPDFExtractionAccumulatesTextLayer(t *testing.T) {
	doc := &fakePDF{
		pages: []string{
			"Item        Qty    Price\nPens        12     4.50\nNotebooks   3      9.00",
			"Payment due within 30 days.",
		},
		w: 612, h: 792,
	}
	st := state.New(state.SourceLocal, "/tmp/inv.pdf", "pdf", "inv.pdf")
	st.RawText = "earlier scan transcription"

	st = extractPDFTables(context.Background(), doc, st, Deps{})
	if st.Failed() {
		t.Fatalf("run failed: %s", st.Err)
	}
	if !strings.Contains(st.RawText, "Notebooks") || !strings.Contains(st.RawText, "Payment due") {
		t.Fatalf("raw text = %q, want both pages' text layer", st.RawText)
	}
	if strings.Contains(st.RawText, "transcription") {
		t.Fatalf("raw text = %q, want the stale transcription replaced", st.RawText)
	}
	if len(st.DetectedTables) != 1 || st.DetectedTables[0].Name != "PDF Table 1" {
		t.Fatalf("detected = %+v, want one PDF Table 1", st.DetectedTables)
	}
}

func TestPDFExtractionVisionFallbackPage(t *testing.T) {
	vision := &fakeVision{response: `{"tables": [{"header": ["A", "B"], "rows": [["1", "2"], ["3", "4"]]}]}`}
	doc := &fakePDF{
		pages:  []string{""},
		images: map[int][]pdfdoc.PageImage{1: {{Data: []byte{0x89}, MIMEType: "image/png"}}},
		w:      612, h: 792,
	}
	st := state.New(state.SourceLocal, "/tmp/scan.pdf", "pdf", "scan.pdf")

	st = extractPDFTables(context.Background(), doc, st, Deps{Vision: vision})
	if st.Failed() {
		t.Fatalf("run failed: %s", st.Err)
	}
	if vision.calls != 1 {
		t.Fatalf("vision calls = %d, want 1", vision.calls)
	}
	if len(st.DetectedTables) != 1 || st.DetectedTables[0].Table.RowCount() != 2 {
		t.Fatalf("detected = %+v, want one 2-row table", st.DetectedTables)
	}
	if st.RawText != "" {
		t.Fatalf("raw text = %q, want empty for a pageless text layer", st.RawText)
	}
}
