package agents

import (
	"context"
	"fmt"

	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
)

// DynamicTableDetection narrows whatever shape the extraction strategy left
// behind into the uniform detected-tables list. A single table becomes one
// entry named "Extracted Table"; a list becomes "Extracted Table N" entries.
// Empty tables are dropped; nothing usable fails the run.
func DynamicTableDetection(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if st.Failed() {
			return st
		}

		var detected []state.DetectedTable
		if t, ok := st.Internal.Single(); ok {
			if !t.Empty() {
				detected = append(detected, state.DetectedTable{
					Name:                "Extracted Table",
					Table:               t,
					CandidateHeaderRows: []int{0},
				})
			}
		} else if ts, ok := st.Internal.List(); ok {
			for i, t := range ts {
				if t.Empty() {
					continue
				}
				detected = append(detected, state.DetectedTable{
					Name:                fmt.Sprintf("Extracted Table %d", i+1),
					Table:               t,
					CandidateHeaderRows: []int{0},
				})
			}
		}

		if len(detected) == 0 {
			return st.Fail("no tables detected from extracted data")
		}
		st.DetectedTables = detected

		deps.logger().Info("agents.table_detection.done",
			"run_id", st.RunID, "tables", len(detected))
		return st
	}
}
