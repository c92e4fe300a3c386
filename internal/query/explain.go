package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
	"github.com/madhu-yavar/transaction-agent/internal/tabular"
)

const explainPrompt = `You are a business data analyst.

You are given:
1. A SQL query
2. Its output (sample rows)
3. A user question

Analyze the output and the original intent to provide a clear explanation and
prescriptive business insights.

SQL Query:
%s

User Question:
%s

Sample Output:
%s

Instructions:
- Summarize the intent of the query.
- Identify patterns, outliers, or any anomalies.
- Explain what the result reveals in business terms (e.g., bottlenecks, delays, mismatches).
- Recommend 3 to 5 specific business actions based on insights.
- Write in professional, clear language.
- Output plain text only. No markdown or code formatting.`

// ChunkSize picks how many rows each explanation chunk carries, scaled by
// the result size so small results stay detailed and large ones stay cheap.
func ChunkSize(rowCount int) int {
	switch {
	case rowCount <= 50:
		return 10
	case rowCount <= 500:
		return 20
	case rowCount <= 2000:
		return 50
	default:
		return 100
	}
}

// SQLExplainer walks the result in chunks and asks the text completer for a
// business-language reading of each, joined into one report.
func (s *Service) SQLExplainer() pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if st.DisplayPreview == "" || st.Frame == nil {
			return st.Fail("cannot generate explanation: missing SQL or data")
		}

		size := ChunkSize(st.Frame.RowCount())
		var parts []string
		for i, chunk := range chunkTable(st.Frame, size) {
			sample, err := json.MarshalIndent(chunk.Records(chunk.RowCount()), "", "  ")
			if err != nil {
				return st.Fail(fmt.Sprintf("explanation failed: %v", err))
			}

			explanation, err := s.Text.Complete(ctx, fmt.Sprintf(explainPrompt,
				st.DisplayPreview, st.RawText, sample))
			if err != nil {
				return st.Fail(fmt.Sprintf("explanation failed: %v", err))
			}
			parts = append(parts, fmt.Sprintf("Chunk %d Insights:\n%s", i+1, strings.TrimSpace(explanation)))

			s.Log.Info("query.explain.chunk", "run_id", st.RunID, "chunk", i+1, "rows", chunk.RowCount())
		}

		st.ExplanationReport = strings.Join(parts, "\n\n")
		st.ChatResponse = st.ExplanationReport
		return st
	}
}

func chunkTable(t *tabular.Table, size int) []*tabular.Table {
	if t.RowCount() == 0 {
		return []*tabular.Table{t}
	}
	var out []*tabular.Table
	for i := 0; i < len(t.Rows); i += size {
		end := i + size
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		out = append(out, &tabular.Table{Header: t.Header, Rows: t.Rows[i:end]})
	}
	return out
}
