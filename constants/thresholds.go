package constants

// Tuning knobs for extraction and the query layer. The magic values carry over
// from the production data set they were tuned on; change with care.
const (
	// OCRAreaRatioThreshold is the minimum extracted-text characters per unit
	// of page area (width x height in points) before a PDF page is considered
	// too sparse for direct extraction.
	OCRAreaRatioThreshold = 0.0005

	// MinDirectTextLen is the raw-text length above which direct table
	// extraction is attempted instead of LLM reconstruction.
	MinDirectTextLen = 20

	// MinPageTextLen is the per-page text length below which a page is skipped
	// during LLM table reconstruction.
	MinPageTextLen = 10

	// MinTableRows / MinTableCols reject noise extractions: anything smaller
	// is discarded.
	MinTableRows = 2
	MinTableCols = 2

	// MaxSQLAttempts bounds the prompt->generate->validate retry loop.
	MaxSQLAttempts = 3

	// PreviewRows is the number of rows shown in markdown previews.
	PreviewRows = 10

	// SemanticSampleRows is the number of rows sampled for semantic inference.
	SemanticSampleRows = 10

	// OCRResolutionDPI is the intended render resolution for OCR page images.
	OCRResolutionDPI = 300

	// TableBreakMarker separates tables in the merged-table splitting response.
	TableBreakMarker = "---TABLE BREAK---"
)
