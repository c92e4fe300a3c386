package agents

import (
	"context"
	"fmt"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
	"github.com/madhu-yavar/transaction-agent/internal/tabular"
)

// GenericTabular loads CSV and spreadsheet files directly into a table.
func GenericTabular(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		var (
			table *tabular.Table
			err   error
		)
		switch constants.NormalizeExt(st.FileType) {
		case "csv":
			table, err = tabular.LoadCSV(st.FilePath)
		case "xls", "xlsx":
			table, err = tabular.LoadExcel(st.FilePath)
		default:
			return st.Fail(fmt.Sprintf("unsupported format for tabular load: %s", st.FileType))
		}
		if err != nil {
			return st.Fail(fmt.Sprintf("tabular load failed: %v", err))
		}

		st.Internal = state.SingleTable(table)
		st.Frame = table
		st.DisplayPreview = table.Markdown(constants.PreviewRows)

		deps.logger().Info("agents.tabular.loaded",
			"run_id", st.RunID,
			"rows", table.RowCount(),
			"cols", table.ColCount(),
		)
		return st
	}
}
