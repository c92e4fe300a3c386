package agents

import (
	"context"
	"fmt"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/pdfdoc"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
)

// Reason strings recorded with the OCR decision. Each names the rule that
// fired; downstream display surfaces them to the user as-is.
const (
	ReasonNoTextLayer    = "No text layer detected"
	ReasonImageHeavyPage = "Image-heavy page detected"
	ReasonLowTextRatio   = "Low text-to-area ratio"
	ReasonSufficientText = "Sufficient text for direct extraction"
)

// DecideOCR is the pure decision: given the first page's extracted-text
// length, embedded image count and dimensions, it reports whether OCR is
// needed and which rule fired. Deterministic in its inputs; width and height
// must be positive, OCRDecision validates them before calling.
func DecideOCR(textLen, imageCount int, width, height float64) (bool, string) {
	if textLen == 0 {
		return true, ReasonNoTextLayer
	}
	if imageCount > 0 {
		return true, ReasonImageHeavyPage
	}
	if float64(textLen)/(width*height) < constants.OCRAreaRatioThreshold {
		return true, ReasonLowTextRatio
	}
	return false, ReasonSufficientText
}

// OCRDecision inspects the first page of a PDF and records whether the run
// should transcribe pages instead of trusting the text layer.
func OCRDecision(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if constants.NormalizeExt(st.FileType) != "pdf" {
			return st.Fail("OCR decision only supports PDFs")
		}

		doc, err := pdfdoc.Open(st.FilePath)
		if err != nil {
			return st.Fail(fmt.Sprintf("OCR decision failed: %v", err))
		}
		return decideOCRFromDoc(doc, st, deps)
	}
}

func decideOCRFromDoc(doc pdfReader, st *state.State, deps Deps) *state.State {
	if doc.PageCount() == 0 {
		return st.Fail("OCR decision failed: PDF has no pages")
	}

	text := doc.PageText(1)
	images := doc.PageImageCount(1)
	w, h := doc.PageDims(1)
	if w <= 0 || h <= 0 {
		return st.Fail(fmt.Sprintf("OCR decision failed: page dimensions %gx%g", w, h))
	}

	st.UseOCR, st.OCRReason = DecideOCR(len(text), images, w, h)

	deps.logger().Info("agents.ocr_decision",
		"run_id", st.RunID,
		"use_ocr", st.UseOCR,
		"reason", st.OCRReason,
		"text_len", len(text),
		"images", images,
	)
	return st
}
