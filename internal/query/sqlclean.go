package query

import (
	"strings"

	"github.com/madhu-yavar/transaction-agent/internal/llm"
)

// CleanSQL strips a markdown fence wrapping and at most one trailing
// semicolon from a generated statement.
func CleanSQL(sql string) string {
	sql = llm.StripFences(sql)
	sql = strings.TrimSpace(strings.TrimSuffix(sql, ";"))
	return sql
}

// IsReadOnlyQuery is the execution gate: only non-empty statements starting
// with SELECT or WITH ever reach the database.
func IsReadOnlyQuery(sql string) bool {
	s := strings.ToLower(strings.TrimSpace(sql))
	return strings.HasPrefix(s, "select") || strings.HasPrefix(s, "with")
}
