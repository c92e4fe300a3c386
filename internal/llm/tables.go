package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// TableBlock is one table in a structured extraction response. Rows hold any
// JSON scalar; cells are stringified when the block is materialized.
type TableBlock struct {
	Title  string   `json:"title,omitempty"`
	Header []string `json:"header"`
	Rows   [][]any  `json:"rows"`
}

// TablesPayload is the {"tables": [...]} shape both the vision extraction and
// the text-based table reconstruction prompts request.
type TablesPayload struct {
	Tables []TableBlock `json:"tables"`
}

// StringRows stringifies the block's cells. JSON null becomes the empty string.
func (b TableBlock) StringRows() [][]string {
	rows := make([][]string, 0, len(b.Rows))
	for _, r := range b.Rows {
		row := make([]string, len(r))
		for i, c := range r {
			switch v := c.(type) {
			case nil:
				row[i] = ""
			case string:
				row[i] = strings.TrimSpace(v)
			case float64:
				// Avoid the %v exponent form for integral values.
				if v == float64(int64(v)) {
					row[i] = fmt.Sprintf("%d", int64(v))
				} else {
					row[i] = fmt.Sprintf("%v", v)
				}
			default:
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildTablesJSONSchema returns the JSON-Schema the tables payload must match.
// It guards the overall structure; entries with a missing header or rows are
// allowed through here and rejected individually by the caller, so one bad
// entry does not discard the rest of the payload.
func BuildTablesJSONSchema() map[string]any {
	cell := map[string]any{"type": []string{"string", "number", "integer", "boolean", "null"}}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"tables"},
		"properties": map[string]any{
			"tables": map[string]any{
				"type": []string{"array", "null"},
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"title": map[string]any{"type": "string"},
						"header": map[string]any{
							"type":  []string{"array", "null"},
							"items": map[string]any{"type": "string"},
						},
						"rows": map[string]any{
							"type":  []string{"array", "null"},
							"items": map[string]any{"type": "array", "items": cell},
						},
					},
				},
			},
		},
	}
}

// DecodeTablesPayload recovers a TablesPayload from a completion response:
// lenient two-stage JSON decode, then schema validation.
func DecodeTablesPayload(raw string, logger *slog.Logger) (TablesPayload, error) {
	var payload TablesPayload
	if err := DecodeObject(raw, &payload, logger); err != nil {
		return TablesPayload{}, err
	}

	// Re-encode the decoded value for validation: what matters is the shape
	// we recovered, not the prose that may have surrounded it.
	doc, err := json.Marshal(payload)
	if err != nil {
		return TablesPayload{}, fmt.Errorf("re-encode tables payload: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BuildTablesJSONSchema(), doc); err != nil {
		return TablesPayload{}, err
	}
	return payload, nil
}
