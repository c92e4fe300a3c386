package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/llm"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
	"github.com/madhu-yavar/transaction-agent/internal/tabular"
)

const splitPrompt = `The text below may contain several tables merged together.
Rewrite it as one or more markdown tables. Separate distinct tables with a
line containing exactly ` + constants.TableBreakMarker + `.
Every table line must start with | and use | between cells. Return only the
tables, no commentary.

Text:
%s`

// TableSplitting asks the text completer to re-render merged raw text as
// markdown tables separated by a break marker, then parses each segment.
// Rows whose cell count does not match the segment's header are dropped.
func TableSplitting(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if st.Failed() {
			return st
		}
		if strings.TrimSpace(st.RawText) == "" {
			return st
		}

		raw, err := deps.Text.Complete(ctx, fmt.Sprintf(splitPrompt, st.RawText))
		if err != nil {
			return st.Fail(fmt.Sprintf("table splitting failed: %v", err))
		}

		tables := ParseMarkdownTables(llm.StripFences(raw))
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
		st.Frame = tables[0]
		st.DisplayPreview = tables[0].Markdown(constants.PreviewRows)

		deps.logger().Info("agents.table_splitting.done",
			"run_id", st.RunID, "tables", len(tables))
		return st
	}
}

// ParseMarkdownTables splits rendered text on the break marker and parses
// each segment: the first |-prefixed line is the header, later |-prefixed
// lines are rows. Markdown separator rows (|---|---|) are skipped.
func ParseMarkdownTables(text string) []*tabular.Table {
	var tables []*tabular.Table
	for _, segment := range strings.Split(text, constants.TableBreakMarker) {
		var header []string
		var rows [][]string
		for _, line := range strings.Split(segment, "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "|") {
				continue
			}
			cells := parsePipeRow(line)
			if len(cells) == 0 || isSeparatorRow(cells) {
				continue
			}
			if header == nil {
				header = cells
				continue
			}
			if len(cells) == len(header) {
				rows = append(rows, cells)
			}
		}
		if len(header) > 0 && len(rows) > 0 {
			tables = append(tables, tabular.New(header, rows))
		}
	}
	return tables
}

func parsePipeRow(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// isSeparatorRow reports whether every cell is made of dashes and colons,
// the alignment row markdown places under the header.
func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if c == "" || strings.Trim(c, "-:") != "" {
			return false
		}
	}
	return true
}
