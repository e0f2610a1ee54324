package pipeline

import (
	"strings"

	"github.com/papercomputeco/ragsql/pkg/datastore"
	"github.com/papercomputeco/ragsql/pkg/sandbox"
)

// NoRows is rendered in place of an empty table.
const NoRows = "No rows."

// MarkdownTable renders t as a GitHub-flavored markdown table.
func MarkdownTable(t *datastore.Table) string {
	if t.Empty() {
		return NoRows
	}

	var sb strings.Builder
	for _, col := range t.Columns {
		sb.WriteString("| ")
		sb.WriteString(escapeCell(col))
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")

	for range t.Columns {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")

	for _, row := range t.Rows {
		for i := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = sandbox.FormatCell(row[i])
			}
			sb.WriteString("| ")
			sb.WriteString(escapeCell(cell))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	return sb.String()
}

// FormatAnalysis renders an analysis output as markdown lines.
func FormatAnalysis(out *sandbox.AnalysisOutput) string {
	var lines []string
	lines = append(lines, "**Result:** "+out.Result)
	if out.Formula != "" {
		lines = append(lines, "**Formula:** "+out.Formula)
	}
	if out.Explanation != "" {
		lines = append(lines, "**Explanation:** "+out.Explanation)
	}
	return strings.Join(lines, "\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func stepMessages(r StepResult, heading bool) []Message {
	text := MarkdownTable(r.Table)
	if heading {
		text = "**Step " + itoa(r.Number) + ":**\n\n" + text
	}

	msgs := []Message{{Kind: KindTable, Text: text, StepNumber: r.Number}}
	switch {
	case r.Analysis != nil:
		msgs = append(msgs, Message{Kind: KindAnalysis, Text: FormatAnalysis(r.Analysis), StepNumber: r.Number})
	case r.AnalysisError != "":
		msgs = append(msgs, Message{Kind: KindAnalysis, Text: "Analysis unavailable: " + r.AnalysisError, StepNumber: r.Number})
	}
	return msgs
}
