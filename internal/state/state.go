// Package state defines the mutable record threaded through every pipeline
// step. Each run owns exactly one State; steps read it, set the fields they
// own, and return it for the next step.
package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/madhu-yavar/transaction-agent/internal/tabular"
)

// Source identifies where the input file came from.
const (
	SourceLocal = "local"
	SourceCloud = "cloud"
)

// DetectedTable is one tabular candidate produced by an extraction strategy.
// Table is never empty; candidates with no usable shape are filtered before
// they reach the list.
type DetectedTable struct {
	Name                string
	Table               *tabular.Table
	CandidateHeaderRows []int
}

// SemanticField is one column's inferred business meaning.
type SemanticField struct {
	Column   string `json:"column"`
	Semantic string `json:"semantic"`
}

// QueryLogEntry records one successful SQL generation and execution.
// History entries are append-only.
type QueryLogEntry struct {
	Timestamp time.Time
	Question  string
	SQL       string
	Columns   []string
	RowCount  int
}

// State is the record shared by all pipeline steps. A non-empty Err is the
// universal failure signal and dominates any other field when interpreting
// the outcome of a run.
type State struct {
	// Input identity
	RunID        uuid.UUID
	Source       string
	FilePath     string
	FileType     string // normalized lowercase extension, no dot
	OriginalName string
	CloudLink    string

	// Raw content
	RawText    string
	Translated bool

	// Tabular candidates
	DetectedTables    []DetectedTable
	SelectedTable     *int
	SelectedHeaderRow *int
	// Frame is the current working table: the one selected, reconstructed,
	// or loaded for display. Normalization keeps Frame and Internal pointing
	// at the same logical data once it has run.
	Frame *tabular.Table

	// Destination metadata
	TableName     string
	ColumnNames   []string // trimmed
	OriginalNames []string // as-is

	// Derived outputs
	DisplayPreview string
	ChatResponse   string
	Internal       InternalData

	// OCR
	UseOCR    bool
	OCRReason string

	// Semantic schema and query support
	SemanticSchema    []SemanticField
	EngineeredPrompt  string
	QueryHistory      []QueryLogEntry
	ValidationReport  string
	ExplanationReport string

	// Failure
	Err string
}

// New creates a run's State with only input-identity fields populated.
func New(source, filePath, fileType, originalName string) *State {
	return &State{
		RunID:        uuid.New(),
		Source:       source,
		FilePath:     filePath,
		FileType:     fileType,
		OriginalName: originalName,
	}
}

// Fail records a step failure. A step that fails must not also claim success
// through other fields.
func (s *State) Fail(msg string) *State {
	s.Err = msg
	return s
}

// Failed reports whether the run carries an error.
func (s *State) Failed() bool { return s.Err != "" }

// ClearErr resets the failure signal, used when a fallback recovered.
func (s *State) ClearErr() { s.Err = "" }
