package agents

import (
	"context"
	"fmt"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
)

// TableReconstruction rebuilds the selected detected table around a
// user-chosen header row. On any precondition failure the prior frame and
// preview are left untouched; only Err is set.
func TableReconstruction(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if len(st.DetectedTables) == 0 {
			return st.Fail("no detected tables to reconstruct")
		}
		if st.SelectedTable == nil {
			return st.Fail("no table selected for reconstruction")
		}
		if st.SelectedHeaderRow == nil {
			return st.Fail("no header row selected")
		}
		if *st.SelectedTable < 0 || *st.SelectedTable >= len(st.DetectedTables) {
			return st.Fail("selected table index out of range")
		}

		entry := st.DetectedTables[*st.SelectedTable]
		if entry.Table.Empty() {
			return st.Fail("selected table is empty or invalid")
		}

		rebuilt, err := entry.Table.Reheader(*st.SelectedHeaderRow)
		if err != nil {
			return st.Fail(fmt.Sprintf("table reconstruction failed: %v", err))
		}

		st.Frame = rebuilt
		st.DisplayPreview = rebuilt.Markdown(constants.PreviewRows)
		st.ClearErr()

		deps.logger().Info("agents.table_reconstruction.done",
			"run_id", st.RunID, "table", entry.Name, "header_row", *st.SelectedHeaderRow)
		return st
	}
}
