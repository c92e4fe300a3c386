package query

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/madhu-yavar/transaction-agent/internal/state"
)

var reQuotedIdent = regexp.MustCompile(`"(.+?)"`)

const validatePrompt = `Validate this SQL query for the question:

QUESTION: %s
SCHEMA COLUMNS (CLEANED): %v
ORIGINAL COLUMN NAMES: %v
SQL: %s

Check for:
1. Exact column name matches (watch for spaces)
2. Proper quoting of special characters
3. Correct table name
4. Valid SQL syntax

Return validation as: VALID: <reason> or INVALID: <reason>`

// ValidateSQL is the strict validation pass: a programmatic check of every
// quoted identifier against the known column names, then a second completion
// asked for an explicit VALID or INVALID judgment. Both parts concatenate
// into the returned report; the boolean is the acceptance decision.
func (s *Service) ValidateSQL(ctx context.Context, st *state.State, sql string) (string, bool) {
	var issues []string
	for _, m := range reQuotedIdent.FindAllStringSubmatch(sql, -1) {
		col := m[1]
		if containsName(st.OriginalNames, col) {
			continue
		}
		if trimmed := strings.TrimSpace(col); containsName(st.ColumnNames, trimmed) {
			issues = append(issues, fmt.Sprintf("Column '%s' should be '%s'", col, trimmed))
		}
	}

	judgment, err := s.Text.Complete(ctx, fmt.Sprintf(validatePrompt,
		st.RawText, st.ColumnNames, st.OriginalNames, sql))
	if err != nil {
		judgment = fmt.Sprintf("VALIDATION FAILED: %v", err)
	}

	report := strings.Join(append(append([]string{"Programmatic Checks:"}, issues...),
		"", "LLM Validation:", strings.TrimSpace(judgment)), "\n")

	return report, judgmentAccepts(judgment)
}

// judgmentAccepts reads the completion's verdict. INVALID is checked first
// since its text also contains the VALID marker.
func judgmentAccepts(judgment string) bool {
	if strings.Contains(judgment, "INVALID:") {
		return false
	}
	return strings.Contains(judgment, "VALID:")
}

func containsName(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
