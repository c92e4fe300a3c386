package agents

import (
	"context"
	"fmt"

	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
	"github.com/madhu-yavar/transaction-agent/internal/store"
)

// TableLoader persists the working frame into the relational store under a
// name inferred from the input file. An existing table is left alone and the
// skip reported, so re-running the same file is harmless.
func TableLoader(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if st.Failed() {
			return st
		}
		if st.Frame.Empty() {
			return st.Fail("table load failed: no data frame to load")
		}
		if deps.Store == nil {
			return st.Fail("table load failed: no store configured")
		}

		name := store.InferTableName(st.FilePath)
		st.TableName = name
		st.ColumnNames = st.Frame.TrimmedHeader()
		st.OriginalNames = append([]string(nil), st.Frame.Header...)

		exists, err := deps.Store.TableExists(ctx, name)
		if err != nil {
			return st.Fail(fmt.Sprintf("table load failed: %v", err))
		}
		if exists {
			st.ChatResponse = fmt.Sprintf("Table '%s' already exists. Skipping creation.", name)
			deps.logger().Info("agents.table_loader.skipped", "run_id", st.RunID, "table", name)
			return st
		}

		if err := deps.Store.CreateTable(ctx, name, st.Frame.Header); err != nil {
			return st.Fail(fmt.Sprintf("table load failed: %v", err))
		}
		if err := deps.Store.InsertRows(ctx, name, st.Frame.Rows); err != nil {
			return st.Fail(fmt.Sprintf("table load failed: %v", err))
		}

		st.ChatResponse = fmt.Sprintf("Table '%s' created and populated.", name)
		deps.logger().Info("agents.table_loader.done",
			"run_id", st.RunID, "table", name, "rows", st.Frame.RowCount())
		return st
	}
}
