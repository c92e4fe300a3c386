package agents

import (
	"context"

	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
)

// DataInput resolves the input identity through the fetcher: local files are
// verified, cloud links downloaded.
func DataInput(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if err := deps.Fetcher.Resolve(ctx, st); err != nil {
			return st.Fail(err.Error())
		}
		deps.logger().Info("agents.input.resolved",
			"run_id", st.RunID,
			"path", st.FilePath,
			"file_type", st.FileType,
			"source", st.Source,
		)
		return st
	}
}
