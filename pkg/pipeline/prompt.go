package pipeline

import (
	"strconv"
	"strings"

	"github.com/papercomputeco/ragsql/pkg/datastore"
)

// BuildPlanPrompt builds the planner prompt: the response rules for both
// shapes, a format example, the schema and the question.
func BuildPlanPrompt(schema, question string) string {
	var sb strings.Builder

	sb.WriteString("Response rules (mandatory):\n")
	sb.WriteString("1. If data is needed, write ONE SQL query between the delimiters @ ... @.\n")
	sb.WriteString("   - Right after the closing @ write a flag: 1 if the user also wants an explanation, otherwise 0.\n")
	sb.WriteString("2. If answering needs advanced maths (regressions, equations, correlations, forecasts,\n")
	sb.WriteString("   standard deviation, ...) add a Python block right after, between ```python and ```.\n")
	sb.WriteString("   - Assume the query result is already loaded in a pandas DataFrame named `df`.\n")
	sb.WriteString("   - Use ONLY these libraries: pandas, numpy, sympy, scipy, scikit-learn.\n")
	sb.WriteString("   - ALWAYS end the script with:\n")
	sb.WriteString("       import json, sys\n")
	sb.WriteString("       json.dump({'result': <value>, 'formula': '<latex>', 'explain': '<short text>'}, sys.stdout)\n")
	sb.WriteString("3. If plain SQL aggregates answer the question (SUM, AVG, MAX, COUNT, MIN) do NOT write a Python block.\n")
	sb.WriteString("4. Do NOT write any text outside the blocks. No explanations, comments or extra markdown.\n")
	sb.WriteString("5. If the question needs several sequential steps (checking that data exists, comparing periods,\n")
	sb.WriteString("   falling back to a forecast, ...) answer with several numbered blocks instead:\n")
	sb.WriteString("   - Do NOT use the @0 or @1 flags in this case.\n")
	sb.WriteString("   - Wrap every SQL block as @...@3 - N, where N is the step number (@...@3 - 1, @...@3 - 2, ...).\n")
	sb.WriteString("   - If a step needs Python, put it in a ```python ... ``` block followed by the matching @3 - N.\n")
	sb.WriteString("   - Write the blocks in order, with no text outside them.\n")
	sb.WriteString("   - Each block runs separately and the results go to an analyst for the final synthesis.\n")
	sb.WriteString("\n")

	sb.WriteString("Example (format reference only, never repeat it):\n")
	sb.WriteString("@SELECT AVG(\"Consumo_km/l\") AS ConsumoMedio\n")
	sb.WriteString("  FROM tbDatiConsumo\n")
	sb.WriteString("  WHERE Targa = 'AB123CD' AND Data BETWEEN '2023-01-01' AND '2023-12-31'@0\n")
	sb.WriteString("\n")
	sb.WriteString("@SELECT Data, \"Consumo_km/l\"\n")
	sb.WriteString("  FROM tbDatiConsumo\n")
	sb.WriteString("  WHERE Targa = 'AB123CD' AND Data >= '2020-01-01'@0\n")
	sb.WriteString("```python\n")
	sb.WriteString("import pandas as pd, numpy as np, json, sys\n")
	sb.WriteString("from sklearn.linear_model import LinearRegression\n")
	sb.WriteString("df['DataNum'] = pd.to_datetime(df['Data']).map(pd.Timestamp.toordinal)\n")
	sb.WriteString("model = LinearRegression().fit(df[['DataNum']], df['Consumo_km/l'])\n")
	sb.WriteString("future = pd.to_datetime(['2024-12-01']).map(pd.Timestamp.toordinal).values.reshape(-1,1)\n")
	sb.WriteString("pred = model.predict(future)\n")
	sb.WriteString("json.dump({'result': float(pred[0]), 'formula': 'y=mx+b', 'explain': 'regression line'}, sys.stdout)\n")
	sb.WriteString("```\n")
	sb.WriteString("\n")

	sb.WriteString("Schema of the tables your queries must use:\n")
	sb.WriteString(schema)
	sb.WriteString("\n\n")
	sb.WriteString("User question: ")
	sb.WriteString(question)
	sb.WriteString("\n")

	return sb.String()
}

// CorrectionMessage is the corrector's input after a failed execution.
func CorrectionMessage(question, prompt, completion, errText string) string {
	return "QUESTION:\n" + question +
		"\n\nPROMPT:\n" + prompt +
		"\n\nANSWER:\n" + completion +
		"\n\nERROR:\n" + errText
}

// ExplanationPrompt asks the explainer to describe a single-step result.
func ExplanationPrompt(question, query string, table *datastore.Table) string {
	var sb strings.Builder
	sb.WriteString("Question: " + question + "\n")
	sb.WriteString("SQL query: " + query + "\n")
	sb.WriteString("Results:\n" + MarkdownTable(table) + "\n")
	sb.WriteString("Explain briefly.\n")
	return sb.String()
}

// SynthesisPrompt gives the analyst every step's table and analysis output
// in ascending step order.
func SynthesisPrompt(question string, results []StepResult) string {
	var sb strings.Builder
	sb.WriteString("Question: " + question + "\n\n")
	for _, r := range results {
		sb.WriteString("Step " + itoa(r.Number) + ":\n")
		sb.WriteString(MarkdownTable(r.Table))
		sb.WriteString("\n")
		if r.Analysis != nil {
			sb.WriteString("Python result: " + r.Analysis.Result + "\n")
			sb.WriteString("Formula: " + r.Analysis.Formula + "\n")
			sb.WriteString("Explanation: " + r.Analysis.Explanation + "\n")
		} else if r.AnalysisError != "" {
			sb.WriteString("Python analysis failed: " + r.AnalysisError + "\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Provide a short synthesis.\n")
	return sb.String()
}

// ConfirmationPrompt asks the explainer for the text stored and embedded
// with a confirmed interaction.
func ConfirmationPrompt(question, query string) string {
	return question + "\nSQL:\n" + query
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
