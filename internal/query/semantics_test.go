package query

import (
	"context"
	"strings"
	"testing"

	"github.com/madhu-yavar/transaction-agent/internal/tabular"
)

func TestSemanticInference(t *testing.T) {
	text := &scriptedCompleter{responses: []string{`[
		{"column": "Doc. Date", "semantic": "Posting date. Sample values: 31.01.2025, 21.01.2025"},
		{"column": "Amount", "semantic": "Invoice amount. Sample values: 12, 7"}
	]`}}
	svc := NewService(text, &fakeExecutor{}, nil)

	st := loadedState()
	st.Frame = tabular.New([]string{" Doc. Date ", "Amount"}, [][]string{
		{"31.01.2025", "12"},
		{"21.01.2025", "7"},
	})

	st = svc.SemanticInference()(context.Background(), st)
	if st.Failed() {
		t.Fatalf("run failed: %s", st.Err)
	}
	if len(st.SemanticSchema) != 2 {
		t.Fatalf("schema length = %d, want 2", len(st.SemanticSchema))
	}
	if st.SemanticSchema[1].Column != "Amount" || !strings.Contains(st.SemanticSchema[1].Semantic, "Sample values") {
		t.Fatalf("schema = %+v", st.SemanticSchema)
	}
	if !strings.Contains(text.prompts[0], "31.01.2025") {
		t.Fatal("prompt should embed sample rows")
	}
}

func TestSemanticInferenceNonArrayFails(t *testing.T) {
	text := &scriptedCompleter{responses: []string{`{"column": "Amount"}`}}
	svc := NewService(text, &fakeExecutor{}, nil)

	st := loadedState()
	st.Frame = tabular.New([]string{"Amount"}, [][]string{{"1"}})
	st = svc.SemanticInference()(context.Background(), st)
	if !st.Failed() {
		t.Fatal("expected failure for a non-array response")
	}
}

func TestSemanticInferenceMissingDataFails(t *testing.T) {
	svc := NewService(&scriptedCompleter{}, &fakeExecutor{}, nil)
	st := loadedState()
	st = svc.SemanticInference()(context.Background(), st)
	if !st.Failed() {
		t.Fatal("expected failure without sample data")
	}
}
