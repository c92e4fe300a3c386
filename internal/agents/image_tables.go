package agents

import (
	"context"
	"fmt"
	"os"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/llm"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
	"github.com/madhu-yavar/transaction-agent/internal/tabular"
)

const imageTablesPrompt = `Extract every table from this image.
Respond with pure JSON of the form:
{"tables": [{"title": "optional title", "header": ["col1", "col2"], "rows": [["v1", "v2"]]}]}
Include all rows. Use null for unreadable cells. Return only the JSON object,
no markdown fences and no commentary.`

// ImageTableExtraction asks the vision completer for a structured tables
// payload from a photographed or scanned table image. Entries missing a
// header or rows are rejected individually rather than failing the payload.
func ImageTableExtraction(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		data, err := os.ReadFile(st.FilePath)
		if err != nil {
			return st.Fail(fmt.Sprintf("image table extraction failed: %v", err))
		}
		mime := "image/png"
		if ext := constants.NormalizeExt(st.FileType); ext == "jpg" || ext == "jpeg" {
			mime = "image/jpeg"
		}

		raw, err := deps.Vision.CompleteWithImage(ctx, imageTablesPrompt, data, mime)
		if err != nil {
			return st.Fail(fmt.Sprintf("image table extraction failed: %v", err))
		}

		payload, err := llm.DecodeTablesPayload(raw, deps.logger())
		if err != nil {
			return st.Fail(fmt.Sprintf("image table extraction returned malformed tables: %v", err))
		}

		tables := materializeBlocks(payload.Tables, st, deps, "agents.image_tables")
		if len(tables) == 0 {
			return st.Fail("no tables detected in image")
		}

		st.DetectedTables = st.DetectedTables[:0]
		for i, t := range tables {
			st.DetectedTables = append(st.DetectedTables, state.DetectedTable{
				Name:                fmt.Sprintf("Image Table %d", i+1),
				Table:               t,
				CandidateHeaderRows: []int{0},
			})
		}
		st.Internal = state.TableList(tables)
		st.Frame = tables[0]
		st.DisplayPreview = tables[0].Markdown(constants.PreviewRows)

		deps.logger().Info("agents.image_tables.done",
			"run_id", st.RunID, "tables", len(tables))
		return st
	}
}

// materializeBlocks turns decoded table blocks into Tables, logging and
// skipping entries without both a header and rows.
func materializeBlocks(blocks []llm.TableBlock, st *state.State, deps Deps, event string) []*tabular.Table {
	var out []*tabular.Table
	for i, b := range blocks {
		if len(b.Header) == 0 || len(b.Rows) == 0 {
			deps.logger().Warn(event+".entry_rejected",
				"run_id", st.RunID, "entry", i, "title", b.Title)
			continue
		}
		t := tabular.New(b.Header, b.StringRows())
		if t.Empty() {
			continue
		}
		out = append(out, t)
	}
	return out
}
