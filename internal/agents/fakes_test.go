package agents

import (
	"context"
	"fmt"

	"github.com/madhu-yavar/transaction-agent/internal/pdfdoc"
)

// fakeCompleter returns canned responses in order, recording prompts.
type fakeCompleter struct {
	responses []string
	err       error
	prompts   []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("fake completer: no responses left")
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

type fakeVision struct {
	response string
	err      error
	calls    int
}

func (f *fakeVision) CompleteWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// fakePDF serves in-memory pages through the pdfReader seam.
type fakePDF struct {
	pages  []string
	images map[int][]pdfdoc.PageImage
	w, h   float64
}

func (f *fakePDF) PageCount() int                    { return len(f.pages) }
func (f *fakePDF) PageText(n int) string             { return f.pages[n-1] }
func (f *fakePDF) PageDims(n int) (float64, float64) { return f.w, f.h }
func (f *fakePDF) PageImageCount(n int) int          { return len(f.images[n]) }

func (f *fakePDF) PageImages(n int) ([]pdfdoc.PageImage, error) {
	return f.images[n], nil
}
