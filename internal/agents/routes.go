package agents

import (
	"fmt"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/common"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
)

// RouteAfterInput picks the extraction strategy from the normalized file
// type. Unrecognized extensions fail the run and go straight to display.
func RouteAfterInput(st *state.State) string {
	if st.Failed() {
		return StepDisplay
	}
	ext := constants.NormalizeExt(st.FileType)
	switch {
	case ext == "pdf":
		return StepOCRDecision
	case constants.IsTabularExt(ext):
		return StepGenericTabular
	case constants.IsImageExt(ext):
		return StepImageTableExtraction
	default:
		st.Fail(fmt.Sprintf("%v: %s", common.ErrUnsupportedInput, ext))
		return StepDisplay
	}
}

// RouteAfterOCRDecision sends OCR-worthy PDFs through transcription and the
// rest down the native extraction path.
func RouteAfterOCRDecision(st *state.State) string {
	if st.Failed() {
		return StepDisplay
	}
	if st.UseOCR {
		return StepOCRExtraction
	}
	return StepLanguageCheck
}

// RouteAfterText decides between direct table extraction and LLM
// reconstruction once raw text is (or isn't) available.
func RouteAfterText(st *state.State) string {
	if st.Failed() {
		return StepDisplay
	}
	if len(st.RawText) > constants.MinDirectTextLen {
		return StepPDFTableExtraction
	}
	return StepDynamicTableUnderstanding
}

// RouteAfterLanguage sends tabular frames on to normalization; PDF text
// falls through to the same decision RouteAfterText makes.
func RouteAfterLanguage(st *state.State) string {
	if st.Failed() {
		return StepDisplay
	}
	if constants.IsTabularExt(constants.NormalizeExt(st.FileType)) {
		return StepDynamicTableDetection
	}
	return RouteAfterText(st)
}

// RouteAfterFallback continues to normalization only when the combined PDF
// strategy actually found tables. A run that exhausted every extraction
// fallback empty-handed is a failure, not a success with no data.
func RouteAfterFallback(st *state.State) string {
	if st.Failed() {
		return StepDisplay
	}
	if len(st.DetectedTables) == 0 {
		st.Fail(fmt.Sprintf("%v from the text layer or image fallback", common.ErrExtractionEmpty))
		return StepDisplay
	}
	return StepDynamicTableDetection
}

var _ pipeline.Router = RouteAfterInput
