// Package query answers natural-language questions about a loaded table by
// generating SQL, validating it, executing it read-only and explaining the
// results in business language. It runs as a sub-pipeline on the same engine
// the ingestion graph uses, one run per question.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/common"
	"github.com/madhu-yavar/transaction-agent/internal/llm"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
	"github.com/madhu-yavar/transaction-agent/internal/tabular"
)

// Step names in the question sub-pipeline.
const (
	StepPromptEngineer = "PromptEngineer"
	StepGenerateSQL    = "GenerateSQL"
	StepExecuteSQL     = "ExecuteSQL"
	StepQueryLogger    = "QueryLogger"
	StepSQLExplainer   = "SQLExplainer"
)

// Executor is the slice of the store this package needs.
type Executor interface {
	Execute(ctx context.Context, query string) ([]string, [][]string, error)
}

// Service holds the collaborators of the question sub-pipeline.
type Service struct {
	Text  llm.Completer
	Store Executor
	Log   *slog.Logger

	// MaxAttempts bounds generate-validate cycles per question.
	MaxAttempts int
	// StrictValidation adds the column-name check and the second-model
	// judgment on top of the read-only gate.
	StrictValidation bool

	now func() time.Time
}

// NewService builds a Service with the default retry bound.
func NewService(text llm.Completer, store Executor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Text:        text,
		Store:       store,
		Log:         logger,
		MaxAttempts: constants.MaxSQLAttempts,
		now:         time.Now,
	}
}

// BuildGraph wires the question sub-pipeline:
// PromptEngineer -> GenerateSQL -> ExecuteSQL -> QueryLogger -> SQLExplainer,
// with failed generation or execution terminating the run.
func (s *Service) BuildGraph() (*pipeline.Engine, error) {
	eng := pipeline.New(s.Log)

	steps := map[string]pipeline.Step{
		StepPromptEngineer: s.PromptEngineer(),
		StepGenerateSQL:    s.GenerateSQL(),
		StepExecuteSQL:     s.ExecuteSQL(),
		StepQueryLogger:    s.QueryLogger(),
		StepSQLExplainer:   s.SQLExplainer(),
	}
	for name, fn := range steps {
		if err := eng.Register(name, fn); err != nil {
			return nil, err
		}
	}

	eng.SetEntry(StepPromptEngineer)
	eng.ConnectConditional(StepPromptEngineer, routeUnlessFailed(StepGenerateSQL))
	eng.ConnectConditional(StepGenerateSQL, routeUnlessFailed(StepExecuteSQL))
	eng.ConnectConditional(StepExecuteSQL, routeUnlessFailed(StepQueryLogger))
	eng.Connect(StepQueryLogger, StepSQLExplainer)

	return eng, nil
}

func routeUnlessFailed(next string) pipeline.Router {
	return func(st *state.State) string {
		if st.Failed() {
			return pipeline.Terminate
		}
		return next
	}
}

// Ask runs one question through the sub-pipeline. The question travels in
// RawText; the generated SQL travels in DisplayPreview.
func (s *Service) Ask(ctx context.Context, st *state.State, question string) (*state.State, error) {
	eng, err := s.BuildGraph()
	if err != nil {
		return st, err
	}
	st.RawText = question
	return eng.Run(ctx, st), nil
}

// PromptEngineer embeds the table name and per-column semantics (or quoted
// original names when no semantic schema has been inferred) into the SQL
// generation prompt.
func (s *Service) PromptEngineer() pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if st.RawText == "" || st.TableName == "" || len(st.ColumnNames) == 0 {
			return st.Fail("missing required fields for prompt engineering (question, table name, or column names)")
		}

		var semanticInfo strings.Builder
		if len(st.SemanticSchema) > 0 {
			for _, f := range st.SemanticSchema {
				fmt.Fprintf(&semanticInfo, "- %q: %s\n", f.Column, f.Semantic)
			}
		} else {
			for _, c := range st.OriginalNames {
				fmt.Fprintf(&semanticInfo, "- %q\n", c)
			}
		}

		st.EngineeredPrompt = fmt.Sprintf(`You are a PostgreSQL expert.

Convert the following user question into a valid SQL query.

Table: %q

Column Info (with sample semantics):
%s
Rules:
1. Use the exact table name: %q
2. Always use quoted column names (e.g., "Net Value", "Item", "Doc. Date")
3. DO NOT use placeholders like 'your_table_name'
4. DO NOT use window functions (e.g., LAG, LEAD) directly in the WHERE clause.
   Instead, calculate them in a CTE or subquery and filter in the outer SELECT.
5. Return only the raw SQL. No explanations. No markdown formatting.

Important: Column names may have leading/trailing spaces. Use them exactly as listed.

Question: %s

SQL:`, st.TableName, semanticInfo.String(), st.TableName, st.RawText)
		return st
	}
}

// GenerateSQL runs up to MaxAttempts generate-validate cycles. The first
// statement that passes the read-only gate (and strict validation when
// enabled) becomes the run's SQL; exhaustion fails the run with the last
// raw response attached.
func (s *Service) GenerateSQL() pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if st.EngineeredPrompt == "" {
			return st.Fail("no engineered prompt for SQL generation")
		}

		var lastRaw string
		for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
			raw, err := s.Text.Complete(ctx, st.EngineeredPrompt)
			if err != nil {
				s.Log.Warn("query.generate.attempt_failed",
					"run_id", st.RunID, "attempt", attempt, "error", err)
				continue
			}
			lastRaw = raw

			sql := CleanSQL(raw)
			if !IsReadOnlyQuery(sql) {
				s.Log.Warn("query.generate.gate_rejected",
					"run_id", st.RunID, "attempt", attempt)
				continue
			}

			if s.StrictValidation {
				report, ok := s.ValidateSQL(ctx, st, sql)
				st.ValidationReport = report
				if !ok {
					s.Log.Warn("query.generate.validation_rejected",
						"run_id", st.RunID, "attempt", attempt)
					continue
				}
			}

			st.DisplayPreview = sql
			s.Log.Info("query.generate.done",
				"run_id", st.RunID, "attempt", attempt, "sql_len", len(sql))
			return st
		}

		return st.Fail(fmt.Sprintf("%v after %d attempts:\n%s", common.ErrValidationRejected, s.MaxAttempts, lastRaw))
	}
}

// ExecuteSQL runs the generated statement through the store and materializes
// the result as the working table. Driver errors surface verbatim.
func (s *Service) ExecuteSQL() pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		sql := st.DisplayPreview
		if !IsReadOnlyQuery(sql) {
			return st.Fail("SQL query is empty or invalid. Execution aborted.")
		}
		if s.Store == nil {
			return st.Fail("no database configured for execution")
		}

		columns, rows, err := s.Store.Execute(ctx, sql)
		if err != nil {
			return st.Fail(fmt.Sprintf("%v: %v", common.ErrExecution, err))
		}

		result := tabular.New(columns, rows)
		st.Internal = state.SingleTable(result)
		st.Frame = result

		s.Log.Info("query.execute.done",
			"run_id", st.RunID, "columns", len(columns), "rows", len(rows))
		return st
	}
}

// QueryLogger appends one history entry per successful generation and
// execution. History is append-only; a run without SQL skips logging.
func (s *Service) QueryLogger() pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if st.DisplayPreview == "" {
			return st
		}
		var columns []string
		rowCount := 0
		if st.Frame != nil {
			columns = append([]string(nil), st.Frame.Header...)
			rowCount = st.Frame.RowCount()
		}
		st.QueryHistory = append(st.QueryHistory, state.QueryLogEntry{
			Timestamp: s.now(),
			Question:  st.RawText,
			SQL:       st.DisplayPreview,
			Columns:   columns,
			RowCount:  rowCount,
		})
		return st
	}
}
