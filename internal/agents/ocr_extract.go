package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/madhu-yavar/transaction-agent/internal/pdfdoc"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
)

const transcribePrompt = `Transcribe all text from this scanned document page.
Preserve the reading order and line structure. Return only the transcribed
text, with no commentary.`

// OCRExtraction transcribes a scanned PDF page by page through the vision
// completer. Scanned pages carry the scan as an embedded image; each page's
// images are transcribed and the page texts joined with a blank line.
func OCRExtraction(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		doc, err := pdfdoc.Open(st.FilePath)
		if err != nil {
			return st.Fail(fmt.Sprintf("OCR extraction failed: %v", err))
		}

		var pages []string
		for n := 1; n <= doc.PageCount(); n++ {
			imgs, err := doc.PageImages(n)
			if err != nil {
				deps.logger().Warn("agents.ocr.page_images_failed",
					"run_id", st.RunID, "page", n, "error", err)
				continue
			}
			var parts []string
			for _, img := range imgs {
				text, err := deps.Vision.CompleteWithImage(ctx, transcribePrompt, img.Data, img.MIMEType)
				if err != nil {
					return st.Fail(fmt.Sprintf("OCR extraction failed on page %d: %v", n, err))
				}
				if text = strings.TrimSpace(text); text != "" {
					parts = append(parts, text)
				}
			}
			if len(parts) > 0 {
				pages = append(pages, strings.Join(parts, "\n"))
			}
		}

		if len(pages) == 0 {
			return st.Fail("OCR extraction produced no text")
		}
		st.RawText = strings.Join(pages, "\n\n")

		deps.logger().Info("agents.ocr.done",
			"run_id", st.RunID, "pages", doc.PageCount(), "text_len", len(st.RawText))
		return st
	}
}
