// Package pdfdoc wraps the two PDF libraries the pipeline needs: the text
// layer per page (ledongthuc/pdf) and page structure (count, dimensions,
// embedded images) via pdfcpu. Scanned pages carry their scan as an embedded
// image XObject, which is what the OCR and vision fallbacks consume.
package pdfdoc

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PageImage is one embedded image extracted from a page.
type PageImage struct {
	Data     []byte
	MIMEType string
}

// Document is an open PDF. Not safe for concurrent use.
type Document struct {
	path   string
	text   *pdf.Reader
	pdfCtx *model.Context
	dims   []types.Dim
}

// Open reads the file once and prepares both views of it.
func Open(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", path, err)
	}

	textReader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf %s: %w", path, err)
	}

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(raw), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read %s: %w", path, err)
	}

	dims, err := pdfCtx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("pdf page dims %s: %w", path, err)
	}

	return &Document{path: path, text: textReader, pdfCtx: pdfCtx, dims: dims}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pdfCtx.PageCount
}

// PageText extracts the text layer of page n (1-based). Malformed content
// streams yield an empty string rather than an error; a page with no text
// layer is indistinguishable from one that failed to parse, which is exactly
// how the OCR decision treats it.
func (d *Document) PageText(n int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	if n < 1 || n > d.text.NumPage() {
		return ""
	}
	p := d.text.Page(n)
	if p.V.IsNull() {
		return ""
	}
	s, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return s
}

// PageDims returns the width and height of page n in points.
func (d *Document) PageDims(n int) (w, h float64) {
	if n < 1 || n > len(d.dims) {
		return 0, 0
	}
	dim := d.dims[n-1]
	return dim.Width, dim.Height
}

// PageImageCount returns the number of image XObjects on page n.
func (d *Document) PageImageCount(n int) int {
	if d.pdfCtx.Optimize == nil {
		return 0
	}
	return len(pdfcpu.ImageObjNrs(d.pdfCtx, n))
}

// PageImages extracts the embedded images of page n.
func (d *Document) PageImages(n int) ([]PageImage, error) {
	imgs, err := pdfcpu.ExtractPageImages(d.pdfCtx, n, false)
	if err != nil {
		return nil, fmt.Errorf("extract images page %d: %w", n, err)
	}
	out := make([]PageImage, 0, len(imgs))
	for _, img := range imgs {
		data, err := io.ReadAll(img)
		if err != nil || len(data) == 0 {
			continue
		}
		out = append(out, PageImage{Data: data, MIMEType: mimeForFileType(img.FileType)})
	}
	return out, nil
}

func mimeForFileType(ft string) string {
	switch ft {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "tif", "tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
