// Package plan parses a planner completion into ordered executable steps.
//
// Two response shapes are accepted. The single-step shape is one query
// between '@' markers followed by a flag, "@<query>@0" or "@<query>@1", where
// 1 asks for an explanation of the result, plus an optional fenced python
// block. The multi-step shape is selected whenever the text contains a step
// suffix "@3 - N": each query is written "@<query>@3 - N" and each analysis
// block "```python<code>``` @3 - N".
package plan

import "strings"

// Shape is the response shape a plan was parsed from.
type Shape string

const (
	ShapeSingle Shape = "single"
	ShapeMulti  Shape = "multi"
)

// Step is one executable query with optional analysis code.
type Step struct {
	Number       int    `json:"number"`
	QueryText    string `json:"query_text"`
	AnalysisCode string `json:"analysis_code,omitempty"`
}

// HasAnalysis reports whether the step carries analysis code.
func (s Step) HasAnalysis() bool {
	return strings.TrimSpace(s.AnalysisCode) != ""
}

// Plan is the parsed completion. Steps are unique by Number and sorted
// ascending. A single-shape plan has exactly one step numbered 1.
type Plan struct {
	Shape            Shape  `json:"shape"`
	Steps            []Step `json:"steps"`
	ExplainRequested bool   `json:"explain_requested"`
}

// Queries returns the query of every step in execution order.
func (p *Plan) Queries() []string {
	queries := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		queries = append(queries, s.QueryText)
	}
	return queries
}

// QueryText is the plan's queries as one readable script. A single query is
// returned unchanged; several are terminated with ';' and separated by a
// blank line. The script is for display; replay runs Queries one by one.
func (p *Plan) QueryText() string {
	queries := p.Queries()
	if len(queries) == 1 {
		return queries[0]
	}
	for i, q := range queries {
		queries[i] = strings.TrimRight(strings.TrimSpace(q), ";")
	}
	return strings.Join(queries, ";\n\n")
}

// AnalysisCode joins the non-empty analysis code of every step with a blank
// line.
func (p *Plan) AnalysisCode() string {
	var parts []string
	for _, s := range p.Steps {
		if s.HasAnalysis() {
			parts = append(parts, s.AnalysisCode)
		}
	}
	return strings.Join(parts, "\n\n")
}
