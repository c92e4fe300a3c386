package tabular

import (
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Markdown renders up to maxRows rows as a GitHub-style markdown table.
func (t *Table) Markdown(maxRows int) string {
	if t.Empty() {
		return ""
	}
	head := t.Head(maxRows)

	var b strings.Builder
	w := tablewriter.NewWriter(&b)
	w.SetHeader(head.Header)
	w.SetAutoFormatHeaders(false)
	w.SetAutoWrapText(false)
	w.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	w.SetCenterSeparator("|")
	w.AppendBulk(head.Rows)
	w.Render()
	return strings.TrimRight(b.String(), "\n")
}
