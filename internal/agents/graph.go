package agents

import (
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
)

// BuildGraph assembles the ingestion pipeline. DataInput is the entry; every
// path ends at Display. When deps carries a store, normalized tables are
// loaded before display; otherwise DynamicTableDetection goes straight to
// Display. TableReconstruction is not part of the default graph: it is an
// interactive step the caller runs once a header row has been chosen.
func BuildGraph(deps Deps) (*pipeline.Engine, error) {
	eng := pipeline.New(deps.logger())

	steps := map[string]pipeline.Step{
		StepDataInput:                 DataInput(deps),
		StepOCRDecision:               OCRDecision(deps),
		StepOCRExtraction:             OCRExtraction(deps),
		StepLanguageCheck:             LanguageCheck(deps),
		StepPDFTableExtraction:        PDFTableExtraction(deps),
		StepDynamicTableUnderstanding: DynamicTableUnderstanding(deps),
		StepTableSplitting:            TableSplitting(deps),
		StepDynamicTableDetection:     DynamicTableDetection(deps),
		StepGenericTabular:            GenericTabular(deps),
		StepImageTableExtraction:      ImageTableExtraction(deps),
		StepDisplay:                   Display(deps),
	}
	if deps.Store != nil {
		steps[StepTableLoader] = TableLoader(deps)
	}
	for name, fn := range steps {
		if err := eng.Register(name, fn); err != nil {
			return nil, err
		}
	}

	eng.SetEntry(StepDataInput)
	eng.ConnectConditional(StepDataInput, RouteAfterInput)
	eng.ConnectConditional(StepOCRDecision, RouteAfterOCRDecision)
	eng.ConnectConditional(StepOCRExtraction, RouteAfterText)
	eng.ConnectConditional(StepLanguageCheck, RouteAfterLanguage)
	eng.Connect(StepGenericTabular, StepLanguageCheck)
	eng.Connect(StepImageTableExtraction, StepDynamicTableDetection)
	eng.Connect(StepPDFTableExtraction, StepTableSplitting)
	eng.Connect(StepDynamicTableUnderstanding, StepTableSplitting)
	eng.ConnectConditional(StepTableSplitting, RouteAfterFallback)
	if deps.Store != nil {
		eng.Connect(StepDynamicTableDetection, StepTableLoader)
		eng.Connect(StepTableLoader, StepDisplay)
	} else {
		eng.Connect(StepDynamicTableDetection, StepDisplay)
	}
	// Display has no outgoing edge; the engine terminates there.

	return eng, nil
}
