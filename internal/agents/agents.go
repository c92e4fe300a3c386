// Package agents holds the pipeline's steps: extraction strategies that turn
// bytes or text into candidate tables, the decision routers between them, and
// normalization down to a uniform detected-tables list.
package agents

import (
	"log/slog"

	"github.com/madhu-yavar/transaction-agent/internal/ingest"
	"github.com/madhu-yavar/transaction-agent/internal/llm"
	"github.com/madhu-yavar/transaction-agent/internal/store"
)

// Step names, also the node names in the default graph.
const (
	StepDataInput                 = "DataInput"
	StepOCRDecision               = "OCRDecision"
	StepOCRExtraction             = "OCRExtraction"
	StepLanguageCheck             = "LanguageCheck"
	StepPDFTableExtraction        = "PDFTableExtraction"
	StepDynamicTableUnderstanding = "DynamicTableUnderstanding"
	StepTableSplitting            = "TableSplitting"
	StepDynamicTableDetection     = "DynamicTableDetection"
	StepGenericTabular            = "GenericTabular"
	StepImageTableExtraction      = "ImageTableExtraction"
	StepTableLoader               = "TableLoader"
	StepDisplay                   = "Display"
)

// Deps carries the collaborators steps depend on. Completion services are
// injected here rather than read from ambient state so tests can supply
// deterministic fakes.
type Deps struct {
	Text    llm.Completer
	Vision  llm.VisionCompleter
	Fetcher *ingest.Fetcher
	Store   *store.DB // optional; required only by TableLoader
	Log     *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Log == nil {
		return slog.Default()
	}
	return d.Log
}
