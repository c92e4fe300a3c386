package agents

import (
	"context"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
)

// Display renders the final markdown preview of the working frame. It is the
// terminal step of every path, including failed ones, and never overrides a
// run's error with one of its own.
func Display(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if st.Frame.Empty() {
			st.DisplayPreview = "No data available for preview."
			return st
		}
		st.DisplayPreview = "### Data Preview (First 10 Rows)\n\n" +
			st.Frame.Markdown(constants.PreviewRows)
		return st
	}
}
