package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/madhu-yavar/transaction-agent/internal/agents"
	"github.com/madhu-yavar/transaction-agent/internal/common"
	"github.com/madhu-yavar/transaction-agent/internal/ingest"
	"github.com/madhu-yavar/transaction-agent/internal/llm/gemini"
	"github.com/madhu-yavar/transaction-agent/internal/state"
	"github.com/madhu-yavar/transaction-agent/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "transact <file-path-or-url>")
		os.Exit(2)
	}
	input := os.Args[1]

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		logger.Error("GEMINI_API_KEY required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := gemini.NewClient(gemini.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		TextModel:   cfg.LLM.TextModel,
		VisionModel: cfg.LLM.VisionModel,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	deps := agents.Deps{
		Text:    client,
		Vision:  client,
		Fetcher: ingest.NewFetcher(cfg.Ingest.DownloadTimeout, cfg.Ingest.TmpDir, logger),
		Log:     logger,
	}

	if cfg.Database.DSN != "" {
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
		deps.Store = db
	}

	eng, err := agents.BuildGraph(deps)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}

	st := newRunState(input)
	st = eng.Run(ctx, st)

	if st.Failed() {
		logger.Error("run failed", "run_id", st.RunID, "error", st.Err)
		os.Exit(1)
	}
	if st.ChatResponse != "" {
		fmt.Println(st.ChatResponse)
		fmt.Println()
	}
	fmt.Println(st.DisplayPreview)
}

func newRunState(input string) *state.State {
	if ingest.IsCloudLink(input) {
		st := state.New(state.SourceCloud, "", "", "")
		st.CloudLink = input
		return st
	}
	return state.New(state.SourceLocal, "", "", input)
}
