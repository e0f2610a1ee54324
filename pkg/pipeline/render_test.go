package pipeline_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/pkg/datastore"
	"github.com/papercomputeco/ragsql/pkg/pipeline"
	"github.com/papercomputeco/ragsql/pkg/sandbox"
)

var _ = Describe("MarkdownTable", func() {
	It("renders columns and rows", func() {
		out := pipeline.MarkdownTable(&datastore.Table{
			Columns: []string{"Targa", "Litri"},
			Rows:    [][]any{{"AB123CD", 40.5}, {"ZZ999ZZ", nil}},
		})

		Expect(strings.Split(strings.TrimSpace(out), "\n")).To(Equal([]string{
			"| Targa | Litri |",
			"|---|---|",
			"| AB123CD | 40.5 |",
			"| ZZ999ZZ |  |",
		}))
	})

	It("escapes pipes and newlines in cells", func() {
		out := pipeline.MarkdownTable(&datastore.Table{
			Columns: []string{"note"},
			Rows:    [][]any{{"a|b\nc"}},
		})
		Expect(out).To(ContainSubstring(`| a\|b c |`))
	})

	It("renders an empty result as a sentence", func() {
		Expect(pipeline.MarkdownTable(&datastore.Table{Columns: []string{"x"}})).To(Equal(pipeline.NoRows))
		Expect(pipeline.MarkdownTable(nil)).To(Equal(pipeline.NoRows))
	})
})

var _ = Describe("FormatAnalysis", func() {
	It("omits empty fields", func() {
		out := pipeline.FormatAnalysis(&sandbox.AnalysisOutput{Result: "3.2"})
		Expect(out).To(Equal("**Result:** 3.2"))
	})

	It("renders every field", func() {
		out := pipeline.FormatAnalysis(&sandbox.AnalysisOutput{Result: "3.2", Formula: "y=mx+b", Explanation: "trend"})
		Expect(out).To(Equal("**Result:** 3.2\n**Formula:** y=mx+b\n**Explanation:** trend"))
	})
})

var _ = Describe("Prompts", func() {
	It("includes both response shapes in the plan prompt", func() {
		prompt := pipeline.BuildPlanPrompt("TABLE t (a int)", "how many?")
		Expect(prompt).To(ContainSubstring("@...@3 - N"))
		Expect(prompt).To(ContainSubstring("```python"))
		Expect(prompt).To(ContainSubstring("TABLE t (a int)"))
		Expect(prompt).To(HaveSuffix("User question: how many?\n"))
	})

	It("frames the correction message", func() {
		Expect(pipeline.CorrectionMessage("q", "p", "a", "e")).To(Equal("QUESTION:\nq\n\nPROMPT:\np\n\nANSWER:\na\n\nERROR:\ne"))
	})

	It("orders synthesis input by step", func() {
		prompt := pipeline.SynthesisPrompt("q", []pipeline.StepResult{
			{Number: 1, Table: &datastore.Table{Columns: []string{"a"}, Rows: [][]any{{1}}}},
			{Number: 2, Table: &datastore.Table{}, AnalysisError: "boom"},
		})
		Expect(strings.Index(prompt, "Step 1:")).To(BeNumerically("<", strings.Index(prompt, "Step 2:")))
		Expect(prompt).To(ContainSubstring("Python analysis failed: boom"))
	})
})
