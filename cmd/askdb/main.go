package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/madhu-yavar/transaction-agent/internal/common"
	"github.com/madhu-yavar/transaction-agent/internal/llm/gemini"
	"github.com/madhu-yavar/transaction-agent/internal/query"
	"github.com/madhu-yavar/transaction-agent/internal/state"
	"github.com/madhu-yavar/transaction-agent/internal/store"
	"github.com/madhu-yavar/transaction-agent/internal/tabular"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 3 {
		logger.Error("usage", "cmd", "askdb <table-name> <question>")
		os.Exit(2)
	}
	tableName, question := os.Args[1], os.Args[2]

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := store.Open(ctx, store.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("close db", "error", cerr)
		}
	}()

	client := gemini.NewClient(gemini.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		TextModel:   cfg.LLM.TextModel,
		VisionModel: cfg.LLM.VisionModel,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	svc := query.NewService(client, db, logger)
	svc.StrictValidation = true

	st, err := primeState(ctx, db, tableName)
	if err != nil {
		logger.Error("load table schema", "table", tableName, "error", err)
		os.Exit(1)
	}

	// Semantic descriptions make the generation prompt sharper; a failure
	// here still leaves the quoted-name fallback usable.
	if out := svc.SemanticInference()(ctx, st); out.Failed() {
		logger.Warn("semantic inference skipped", "error", out.Err)
		out.ClearErr()
	}

	st, err = svc.Ask(ctx, st, question)
	if err != nil {
		logger.Error("ask failed", "error", err)
		os.Exit(1)
	}
	if st.Failed() {
		logger.Error("ask failed", "run_id", st.RunID, "error", st.Err)
		os.Exit(1)
	}

	fmt.Println("SQL:")
	fmt.Println(st.DisplayPreview)
	fmt.Println()
	fmt.Println(st.ExplanationReport)
}

// primeState loads the table's columns and a sample of rows so the prompt
// engineer and semantic inference have real data to work from.
func primeState(ctx context.Context, db *store.DB, tableName string) (*state.State, error) {
	columns, rows, err := db.Execute(ctx, fmt.Sprintf(`SELECT * FROM %q LIMIT 10`, tableName))
	if err != nil {
		return nil, err
	}

	st := state.New(state.SourceLocal, "", "", tableName)
	st.TableName = tableName
	st.Frame = tabular.New(columns, rows)
	st.OriginalNames = columns
	st.ColumnNames = st.Frame.TrimmedHeader()
	return st, nil
}
