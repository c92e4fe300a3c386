package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/madhu-yavar/transaction-agent/internal/common"
)

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```sql\nSELECT 1\n```", "SELECT 1"},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\nplain\n```", "plain"},
		{"no fences", "no fences"},
		{"  padded  ", "padded"},
	}
	for _, tc := range cases {
		if got := StripFences(tc.in); got != tc.want {
			t.Errorf("StripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeObjectStrict(t *testing.T) {
	var out struct {
		A int `json:"a"`
	}
	if err := DecodeObject(`{"a": 7}`, &out, nil); err != nil {
		t.Fatal(err)
	}
	if out.A != 7 {
		t.Fatalf("a = %d", out.A)
	}
}

func TestDecodeObjectRecoversEmbeddedJSON(t *testing.T) {
	raw := `Sure! Here is the data you asked for:

{"tables": [{"header": ["A"], "rows": [["1"]]}]}

Let me know if you need anything else.`

	var out TablesPayload
	if err := DecodeObject(raw, &out, nil); err != nil {
		t.Fatal(err)
	}
	if len(out.Tables) != 1 || out.Tables[0].Header[0] != "A" {
		t.Fatalf("payload = %+v", out)
	}
}

func TestDecodeObjectBothStagesFail(t *testing.T) {
	var out map[string]any
	err := DecodeObject("no json anywhere", &out, nil)
	if err == nil {
		t.Fatal("expected error when no JSON object is present")
	}
	if !strings.Contains(err.Error(), "no JSON object") {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(err, common.ErrMalformedCompletion) {
		t.Fatalf("err = %v, want common.ErrMalformedCompletion", err)
	}

	err = DecodeObject("prefix {broken json} suffix", &out, nil)
	if err == nil || !strings.Contains(err.Error(), "did not parse") {
		t.Fatalf("err = %v, want recovered-block parse failure", err)
	}
	if !errors.Is(err, common.ErrMalformedCompletion) {
		t.Fatalf("err = %v, want common.ErrMalformedCompletion", err)
	}
}

func TestDecodeArrayRecoversEmbeddedJSON(t *testing.T) {
	raw := "Here you go:\n[{\"column\": \"PO\", \"semantic\": \"Purchase order id\"}]"
	var out []struct {
		Column   string `json:"column"`
		Semantic string `json:"semantic"`
	}
	if err := DecodeArray(raw, &out, nil); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Column != "PO" {
		t.Fatalf("out = %+v", out)
	}
}

func TestDecodeTablesPayloadSchemaRejectsWrongShape(t *testing.T) {
	// tables must be an array; an object there never survives decoding.
	if _, err := DecodeTablesPayload(`{"tables": {"header": []}}`, nil); err == nil {
		t.Fatal("expected schema rejection")
	}
}

func TestDecodeTablesPayloadSchemaRejectsObjectCells(t *testing.T) {
	raw := `{"tables": [{"header": ["A"], "rows": [[{"nested": 1}]]}]}`
	if _, err := DecodeTablesPayload(raw, nil); err == nil {
		t.Fatal("expected schema rejection for an object-valued cell")
	}
}

func TestDecodeTablesPayloadAllowsEntriesMissingHeader(t *testing.T) {
	// Entries without header or rows pass the schema; the caller rejects
	// them one by one so the rest of the payload survives.
	raw := `{"tables": [{"title": "broken"}, {"header": ["A"], "rows": [["1"]]}]}`
	payload, err := DecodeTablesPayload(raw, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(payload.Tables) != 2 {
		t.Fatalf("entries = %d, want both kept at this layer", len(payload.Tables))
	}
}

func TestTableBlockStringRows(t *testing.T) {
	b := TableBlock{
		Header: []string{"name", "qty", "price"},
		Rows:   [][]any{{" pens ", float64(12), 4.5}, {nil, true, float64(0)}},
	}
	rows := b.StringRows()
	if rows[0][0] != "pens" {
		t.Fatalf("string cell = %q, want trimmed", rows[0][0])
	}
	if rows[0][1] != "12" {
		t.Fatalf("integral float = %q, want 12", rows[0][1])
	}
	if rows[0][2] != "4.5" {
		t.Fatalf("float = %q, want 4.5", rows[0][2])
	}
	if rows[1][0] != "" {
		t.Fatalf("null cell = %q, want empty", rows[1][0])
	}
	if rows[1][1] != "true" {
		t.Fatalf("bool cell = %q, want true", rows[1][1])
	}
}
