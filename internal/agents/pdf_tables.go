package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/llm"
	"github.com/madhu-yavar/transaction-agent/internal/pdfdoc"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
	"github.com/madhu-yavar/transaction-agent/internal/tabular"
)

var reColumnGap = regexp.MustCompile(`\t|\s{2,}`)

// pdfReader is the slice of pdfdoc.Document the PDF steps read.
type pdfReader interface {
	PageCount() int
	PageText(n int) string
	PageDims(n int) (w, h float64)
	PageImageCount(n int) int
	PageImages(n int) ([]pdfdoc.PageImage, error)
}

// PDFTableExtraction walks the PDF's text layer page by page and lifts
// whitespace-aligned line blocks into tables. Pages whose text layer yields
// nothing fall back to the vision strategy on their embedded images, so a
// mixed document keeps whatever each page could give.
func PDFTableExtraction(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		doc, err := pdfdoc.Open(st.FilePath)
		if err != nil {
			return st.Fail(fmt.Sprintf("PDF table extraction failed: %v", err))
		}
		return extractPDFTables(ctx, doc, st, deps)
	}
}

func extractPDFTables(ctx context.Context, doc pdfReader, st *state.State, deps Deps) *state.State {
	var pageText []string
	var tables []*tabular.Table
	for n := 1; n <= doc.PageCount(); n++ {
		text := doc.PageText(n)
		pageText = append(pageText, text)
		pageTables := LayoutTables(text)
		if len(pageTables) == 0 {
			pageTables = visionPageTables(ctx, doc, n, st, deps)
		}
		for _, t := range pageTables {
			// Size gate counts the header as a row, matching the raw grid.
			if t.RowCount()+1 < constants.MinTableRows || t.ColCount() < constants.MinTableCols {
				deps.logger().Info("agents.pdf_tables.skipped_small",
					"run_id", st.RunID, "page", n, "rows", t.RowCount(), "cols", t.ColCount())
				continue
			}
			tables = append(tables, t)
		}
	}

	// The accumulated text layer replaces any earlier transcription so the
	// splitting pass works on what the document itself says.
	st.RawText = strings.TrimSpace(strings.Join(pageText, "\n"))

	st.DetectedTables = st.DetectedTables[:0]
	for i, t := range tables {
		st.DetectedTables = append(st.DetectedTables, state.DetectedTable{
			Name:                fmt.Sprintf("PDF Table %d", i+1),
			Table:               t,
			CandidateHeaderRows: []int{0},
		})
	}
	if len(tables) > 0 {
		st.Internal = state.TableList(tables)
		st.Frame = tables[0]
		st.DisplayPreview = tables[0].Markdown(constants.PreviewRows)
	}

	deps.logger().Info("agents.pdf_tables.done",
		"run_id", st.RunID, "pages", doc.PageCount(), "tables", len(tables))
	return st
}

// visionPageTables runs the structured-tables prompt over a page's embedded
// images. A failed page contributes nothing instead of failing the run.
func visionPageTables(ctx context.Context, doc pdfReader, page int, st *state.State, deps Deps) []*tabular.Table {
	imgs, err := doc.PageImages(page)
	if err != nil {
		deps.logger().Warn("agents.pdf_tables.page_images_failed",
			"run_id", st.RunID, "page", page, "error", err)
		return nil
	}

	var out []*tabular.Table
	for _, img := range imgs {
		raw, err := deps.Vision.CompleteWithImage(ctx, imageTablesPrompt, img.Data, img.MIMEType)
		if err != nil {
			deps.logger().Warn("agents.pdf_tables.vision_failed",
				"run_id", st.RunID, "page", page, "error", err)
			continue
		}
		payload, err := llm.DecodeTablesPayload(raw, deps.logger())
		if err != nil {
			deps.logger().Warn("agents.pdf_tables.vision_malformed",
				"run_id", st.RunID, "page", page, "error", err)
			continue
		}
		out = append(out, materializeBlocks(payload.Tables, st, deps, "agents.pdf_tables")...)
	}
	return out
}

// LayoutTables finds whitespace-aligned tables in a page's text layer: runs
// of consecutive lines that each split into the same number of fields on
// tabs or 2+ spaces. The first line of a run is taken as the header.
func LayoutTables(text string) []*tabular.Table {
	var tables []*tabular.Table
	var block [][]string
	width := 0

	flush := func() {
		if len(block) >= constants.MinTableRows && width >= constants.MinTableCols {
			tables = append(tables, tabular.New(block[0], block[1:]))
		}
		block, width = nil, 0
	}

	for _, line := range strings.Split(text, "\n") {
		fields := splitColumns(line)
		if len(fields) < constants.MinTableCols {
			flush()
			continue
		}
		if width != 0 && len(fields) != width {
			flush()
		}
		width = len(fields)
		block = append(block, fields)
	}
	flush()
	return tables
}

func splitColumns(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	parts := reColumnGap.Split(line, -1)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
