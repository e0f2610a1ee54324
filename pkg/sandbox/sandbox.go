// Package sandbox runs generated python analysis code over a CSV export of a
// query result in a separate interpreter process.
package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/papercomputeco/ragsql/pkg/datastore"
)

// AnalysisOutput is the JSON object the analysis code writes to stdout.
type AnalysisOutput struct {
	Result      string `json:"result"`
	Formula     string `json:"formula"`
	Explanation string `json:"explain"`
}

// Runner executes analysis code.
type Runner interface {
	// Run executes code with the table loaded as the pandas DataFrame df.
	// Failures are returned as *Error.
	Run(ctx context.Context, code string, table *datastore.Table) (*AnalysisOutput, error)
}

// BuildScript prepends the prelude that imports pandas and loads csvPath into
// df.
func BuildScript(code, csvPath string) string {
	var sb strings.Builder
	sb.WriteString("import pandas as pd\n")
	sb.WriteString("import json, sys\n")
	fmt.Fprintf(&sb, "df = pd.read_csv(r\"%s\")\n", csvPath)
	sb.WriteString(code)
	sb.WriteString("\n")
	return sb.String()
}

// ParseOutput decodes the analysis JSON. The whole of stdout is tried first,
// then the last line that holds a JSON object, so stray prints before the
// final json.dump are tolerated. Non-string values are rendered as JSON text.
func ParseOutput(stdout []byte) (*AnalysisOutput, error) {
	raw, err := decodeObject(strings.TrimSpace(string(stdout)))
	if err != nil {
		lines := strings.Split(strings.TrimSpace(string(stdout)), "\n")
		for i := len(lines) - 1; i >= 0; i-- {
			line := strings.TrimSpace(lines[i])
			if !strings.HasPrefix(line, "{") {
				continue
			}
			if raw, err = decodeObject(line); err == nil {
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}

	return &AnalysisOutput{
		Result:      stringify(raw["result"]),
		Formula:     stringify(raw["formula"]),
		Explanation: stringify(raw["explain"]),
	}, nil
}

func decodeObject(s string) (map[string]any, error) {
	if s == "" {
		return nil, errors.New("no output")
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("output is not a JSON object")
	}
	return raw, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
