package query

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/llm"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
)

const semanticPrompt = `You are a smart semantic annotator.

Your task is to analyze the provided table structure to determine the business
meaning of each column using:
- The column name
- The sample values

Column Headers:
%s

Sample Rows:
%s

Output a valid JSON array like:
[
  {
    "column": "<actual column name>",
    "semantic": "<semantic description with 2-3 sample values inside>"
  }
]

Rules:
- Use both the column name and the sample values to determine meaning.
- For each column, include 2-3 representative values inside the semantic explanation.
- Ignore empty or meaningless columns.
- Output must be a pure JSON array. No markdown, no explanations, no comments.`

// SemanticInference samples the working table and asks the text completer
// for a business meaning per column. The result primes the prompt engineer;
// a response that is not a JSON array fails the step.
func (s *Service) SemanticInference() pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if len(st.ColumnNames) == 0 || st.Frame.Empty() {
			return st.Fail("semantic inference failed: missing column names or sample data")
		}

		headers, err := json.MarshalIndent(st.ColumnNames, "", "  ")
		if err != nil {
			return st.Fail(fmt.Sprintf("semantic inference failed: %v", err))
		}
		sample, err := json.MarshalIndent(st.Frame.Records(constants.SemanticSampleRows), "", "  ")
		if err != nil {
			return st.Fail(fmt.Sprintf("semantic inference failed: %v", err))
		}

		raw, err := s.Text.Complete(ctx, fmt.Sprintf(semanticPrompt, headers, sample))
		if err != nil {
			return st.Fail(fmt.Sprintf("semantic inference failed: %v", err))
		}

		var schema []state.SemanticField
		if err := llm.DecodeArray(raw, &schema, s.Log); err != nil {
			return st.Fail(fmt.Sprintf("semantic inference returned unexpected format: %v", err))
		}
		st.SemanticSchema = schema

		s.Log.Info("query.semantics.done", "run_id", st.RunID, "columns", len(schema))
		return st
	}
}
