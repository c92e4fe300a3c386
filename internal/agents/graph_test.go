package agents

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/madhu-yavar/transaction-agent/internal/ingest"
	"github.com/madhu-yavar/transaction-agent/internal/state"
)

func TestGraphRunsCSVEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "monthly sales.csv")
	csv := "Name,Qty,Price\npens,12,4.50\nink,7,2.00\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	deps := Deps{
		Text:    &fakeCompleter{responses: []string{"English"}},
		Vision:  &fakeVision{},
		Fetcher: ingest.NewFetcher(time.Second, dir, nil),
	}
	eng, err := BuildGraph(deps)
	if err != nil {
		t.Fatal(err)
	}

	st := eng.Run(context.Background(), state.New(state.SourceLocal, "", "", path))
	if st.Failed() {
		t.Fatalf("run failed: %s", st.Err)
	}
	if st.FileType != "csv" {
		t.Fatalf("file type = %q, want csv", st.FileType)
	}
	if st.Frame.ColCount() != 3 || st.Frame.RowCount() != 2 {
		t.Fatalf("frame shape = %dx%d, want 3 cols x 2 rows",
			st.Frame.ColCount(), st.Frame.RowCount())
	}
	if len(st.DetectedTables) != 1 || st.DetectedTables[0].Name != "Extracted Table" {
		t.Fatalf("detected tables = %+v", st.DetectedTables)
	}
	if !strings.Contains(st.DisplayPreview, "Data Preview") || !strings.Contains(st.DisplayPreview, "pens") {
		t.Fatalf("preview missing heading or data:\n%s", st.DisplayPreview)
	}
}

func TestGraphUnsupportedExtensionFailsClosed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.docx")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	deps := Deps{
		Text:    &fakeCompleter{},
		Vision:  &fakeVision{},
		Fetcher: ingest.NewFetcher(time.Second, dir, nil),
	}
	eng, err := BuildGraph(deps)
	if err != nil {
		t.Fatal(err)
	}

	st := eng.Run(context.Background(), state.New(state.SourceLocal, "", "", path))
	if !st.Failed() || !strings.Contains(st.Err, "unsupported file type") {
		t.Fatalf("err = %q, want unsupported file type", st.Err)
	}
	if st.DisplayPreview != "No data available for preview." {
		t.Fatalf("preview = %q, want placeholder", st.DisplayPreview)
	}
}

func TestGraphMissingFileFails(t *testing.T) {
	deps := Deps{
		Text:    &fakeCompleter{},
		Vision:  &fakeVision{},
		Fetcher: ingest.NewFetcher(time.Second, t.TempDir(), nil),
	}
	eng, err := BuildGraph(deps)
	if err != nil {
		t.Fatal(err)
	}

	st := eng.Run(context.Background(), state.New(state.SourceLocal, "", "", "/nope/missing.csv"))
	if !st.Failed() || !strings.Contains(st.Err, "file not found") {
		t.Fatalf("err = %q, want file not found", st.Err)
	}
}
