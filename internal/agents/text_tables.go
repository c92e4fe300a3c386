package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/llm"
	"github.com/madhu-yavar/transaction-agent/internal/pdfdoc"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
	"github.com/madhu-yavar/transaction-agent/internal/tabular"
)

const textTablesPrompt = `The following is text extracted from a document page.
Reconstruct every table it contains.
Respond with pure JSON of the form:
{"tables": [{"title": "optional title", "header": ["col1", "col2"], "rows": [["v1", "v2"]]}]}
Return only the JSON object, no markdown fences and no commentary.

Text:
%s`

// DynamicTableUnderstanding reconstructs tables from text too short or too
// garbled for direct extraction. Each page with more than a handful of
// characters is handed to the text completer; results concatenate across
// pages and the Frame is the row-wise concatenation of every table found.
func DynamicTableUnderstanding(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		pages, err := pageTexts(st)
		if err != nil {
			return st.Fail(fmt.Sprintf("dynamic table understanding failed: %v", err))
		}

		var tables []*tabular.Table
		for n, text := range pages {
			if len(strings.TrimSpace(text)) <= constants.MinPageTextLen {
				continue
			}
			raw, err := deps.Text.Complete(ctx, fmt.Sprintf(textTablesPrompt, text))
			if err != nil {
				return st.Fail(fmt.Sprintf("dynamic table understanding failed on page %d: %v", n+1, err))
			}
			payload, err := llm.DecodeTablesPayload(raw, deps.logger())
			if err != nil {
				deps.logger().Warn("agents.text_tables.page_malformed",
					"run_id", st.RunID, "page", n+1, "error", err)
				continue
			}
			tables = append(tables, materializeBlocks(payload.Tables, st, deps, "agents.text_tables")...)
		}

		if len(tables) == 0 {
			return st
		}

		st.DetectedTables = st.DetectedTables[:0]
		for i, t := range tables {
			st.DetectedTables = append(st.DetectedTables, state.DetectedTable{
				Name:                fmt.Sprintf("PDF Table %d", i+1),
				Table:               t,
				CandidateHeaderRows: []int{0},
			})
		}
		st.Internal = state.TableList(tables)
		st.Frame = tabular.Concat(tables)
		st.DisplayPreview = st.Frame.Markdown(constants.PreviewRows)

		deps.logger().Info("agents.text_tables.done",
			"run_id", st.RunID, "tables", len(tables))
		return st
	}
}

// pageTexts returns per-page text: from the PDF when the input is one,
// otherwise the accumulated raw text as a single page.
func pageTexts(st *state.State) ([]string, error) {
	if constants.NormalizeExt(st.FileType) != "pdf" {
		return []string{st.RawText}, nil
	}
	doc, err := pdfdoc.Open(st.FilePath)
	if err != nil {
		return nil, err
	}
	pages := make([]string, 0, doc.PageCount())
	for n := 1; n <= doc.PageCount(); n++ {
		pages = append(pages, doc.PageText(n))
	}
	return pages, nil
}
