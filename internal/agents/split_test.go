package agents

import (
	"testing"

	"github.com/madhu-yavar/transaction-agent/constants"
)

func TestParseMarkdownTablesSplitsOnMarker(t *testing.T) {
	text := "| A | B |\n|---|---|\n| 1 | 2 |\n" +
		constants.TableBreakMarker +
		"\n| X | Y |\n|---|---|\n| 7 | 8 |\n| 9 | 10 |"

	tables := ParseMarkdownTables(text)
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}
	if got := tables[0].Header; got[0] != "A" || got[1] != "B" {
		t.Fatalf("first header = %v", got)
	}
	if tables[0].RowCount() != 1 || tables[1].RowCount() != 2 {
		t.Fatalf("row counts = %d, %d, want 1, 2", tables[0].RowCount(), tables[1].RowCount())
	}
	if tables[1].Rows[1][1] != "10" {
		t.Fatalf("cell = %q, want 10", tables[1].Rows[1][1])
	}
}

func TestParseMarkdownTablesDropsMismatchedRows(t *testing.T) {
	text := "| A | B |\n| 1 | 2 |\n| only-one |\n| 3 | 4 | 5 |\n| 6 | 7 |"
	tables := ParseMarkdownTables(text)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	if tables[0].RowCount() != 2 {
		t.Fatalf("row count = %d, want 2 (mismatched rows dropped)", tables[0].RowCount())
	}
}

func TestParseMarkdownTablesFiltersSeparatorRows(t *testing.T) {
	text := "| A | B |\n| --- | :--- |\n| 1 | 2 |"
	tables := ParseMarkdownTables(text)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	if tables[0].RowCount() != 1 || tables[0].Rows[0][0] != "1" {
		t.Fatalf("separator row leaked into data: %v", tables[0].Rows)
	}
}

func TestParseMarkdownTablesIgnoresProse(t *testing.T) {
	text := "Here are the tables you asked for:\n\n| A | B |\n| 1 | 2 |\n\nHope this helps."
	tables := ParseMarkdownTables(text)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
}

func TestParseMarkdownTablesEmptySegments(t *testing.T) {
	if got := ParseMarkdownTables("no tables here"); len(got) != 0 {
		t.Fatalf("got %d tables from prose, want 0", len(got))
	}
	// A header with no data rows is not a table.
	if got := ParseMarkdownTables("| A | B |"); len(got) != 0 {
		t.Fatalf("got %d tables from a lone header, want 0", len(got))
	}
}
