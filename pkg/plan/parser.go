package plan

import (
	"sort"
	"strings"
)

// Parse converts a planner completion into a Plan. The multi-step shape is
// chosen iff the text contains a step suffix. A completion without a query
// block yields a *ParseError.
func Parse(text string) (*Plan, error) {
	if hasStepSuffix(text) {
		return parseMulti(text)
	}
	return parseSingle(text)
}

func parseSingle(text string) (*Plan, error) {
	fences := scanFences(text, false)
	body := cut(text, fences)

	for p := 0; p < len(body); p++ {
		if body[p] != marker {
			continue
		}
		// The query is non-greedy up to the first flag, and non-empty.
		for q := p + 2; q < len(body); q++ {
			explain, ok := flagSuffix(body, q)
			if !ok {
				continue
			}
			query := strings.TrimSpace(body[p+1 : q])
			if query == "" {
				break
			}

			step := Step{Number: 1, QueryText: query}
			if len(fences) > 0 {
				step.AnalysisCode = fences[0].code
			}
			return &Plan{
				Shape:            ShapeSingle,
				Steps:            []Step{step},
				ExplainRequested: explain,
			}, nil
		}
	}

	return nil, &ParseError{Shape: ShapeSingle, Reason: "no @<query>@0 or @<query>@1 block found"}
}

func parseMulti(text string) (*Plan, error) {
	fences := scanFences(text, true)

	analysis := make(map[int]string)
	for _, f := range fences {
		if !f.numbered {
			continue
		}
		if _, seen := analysis[f.number]; !seen {
			analysis[f.number] = f.code
		}
	}

	body := cut(text, fences)

	var steps []Step
	seen := make(map[int]bool)
	i := 0
	for i < len(body) {
		open := strings.IndexByte(body[i:], marker)
		if open < 0 {
			break
		}
		p := i + open

		// A marker that starts a suffix closes nothing and opens nothing.
		if _, end, ok := stepSuffix(body, p); ok {
			i = end
			continue
		}

		n, qStart, qEnd, ok := nextSuffix(body, p+1)
		if !ok {
			break
		}
		i = qEnd

		query := strings.TrimSpace(body[p+1 : qStart])
		if query == "" || seen[n] {
			continue
		}
		seen[n] = true
		steps = append(steps, Step{Number: n, QueryText: query, AnalysisCode: analysis[n]})
	}

	if len(steps) == 0 {
		return nil, &ParseError{Shape: ShapeMulti, Reason: "no @<query>@3 - N block found"}
	}

	sort.SliceStable(steps, func(a, b int) bool {
		return steps[a].Number < steps[b].Number
	})

	return &Plan{Shape: ShapeMulti, Steps: steps}, nil
}

// nextSuffix finds the first step suffix starting at or after from.
func nextSuffix(s string, from int) (number, start, end int, ok bool) {
	for j := from; j < len(s); j++ {
		if s[j] != marker {
			continue
		}
		if n, e, found := stepSuffix(s, j); found {
			return n, j, e, true
		}
	}
	return 0, 0, 0, false
}
