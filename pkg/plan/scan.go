package plan

import (
	"strconv"
	"strings"
)

const (
	marker     = '@'
	fenceOpen  = "```python"
	fenceClose = "```"
)

// fence is a fenced python block found in the text. end is past the closing
// fence, or past the step suffix when one follows the block.
type fence struct {
	start, end int
	code       string
	number     int
	numbered   bool
}

// stepSuffix matches "@3", optional whitespace, '-', optional whitespace and
// one or more digits at s[i:].
func stepSuffix(s string, i int) (number, end int, ok bool) {
	if !strings.HasPrefix(s[i:], "@3") {
		return 0, 0, false
	}
	j := skipSpace(s, i+2)
	if j >= len(s) || s[j] != '-' {
		return 0, 0, false
	}
	j = skipSpace(s, j+1)

	k := j
	for k < len(s) && s[k] >= '0' && s[k] <= '9' {
		k++
	}
	if k == j {
		return 0, 0, false
	}

	n, err := strconv.Atoi(s[j:k])
	if err != nil {
		return 0, 0, false
	}
	return n, k, true
}

// flagSuffix matches "@0" or "@1" at s[i:].
func flagSuffix(s string, i int) (explain bool, ok bool) {
	if i+1 >= len(s) || s[i] != marker {
		return false, false
	}
	switch s[i+1] {
	case '0':
		return false, true
	case '1':
		return true, true
	}
	return false, false
}

// hasStepSuffix reports whether any step suffix appears in s.
func hasStepSuffix(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != marker {
			continue
		}
		if _, _, ok := stepSuffix(s, i); ok {
			return true
		}
	}
	return false
}

// scanFences finds every terminated python block in order. When withSuffix
// is set, a step suffix following the block (after optional whitespace) is
// consumed and recorded.
func scanFences(s string, withSuffix bool) []fence {
	var fences []fence
	i := 0
	for {
		open := strings.Index(s[i:], fenceOpen)
		if open < 0 {
			return fences
		}
		start := i + open
		codeStart := start + len(fenceOpen)

		closeAt := strings.Index(s[codeStart:], fenceClose)
		if closeAt < 0 {
			return fences
		}
		codeEnd := codeStart + closeAt

		f := fence{
			start: start,
			end:   codeEnd + len(fenceClose),
			code:  strings.TrimSpace(s[codeStart:codeEnd]),
		}
		if withSuffix {
			j := skipSpace(s, f.end)
			if n, end, ok := stepSuffix(s, j); ok {
				f.number, f.end, f.numbered = n, end, true
			}
		}

		fences = append(fences, f)
		i = f.end
	}
}

// cut removes the fences from s, replacing each with a newline so that text
// on either side does not run together.
func cut(s string, fences []fence) string {
	if len(fences) == 0 {
		return s
	}

	var sb strings.Builder
	prev := 0
	for _, f := range fences {
		sb.WriteString(s[prev:f.start])
		sb.WriteByte('\n')
		prev = f.end
	}
	sb.WriteString(s[prev:])
	return sb.String()
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			i++
		default:
			return i
		}
	}
	return i
}
