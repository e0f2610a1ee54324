package plan_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/pkg/plan"
)

var _ = Describe("Parse", func() {
	Context("single-step responses", func() {
		It("extracts the query without an explanation for flag 0", func() {
			p, err := plan.Parse("@SELECT AVG([Consumo_km/l]) AS ConsumoMedio\n  FROM tbDatiConsumo\n  WHERE Targa = 'AB123CD'@0")
			Expect(err).NotTo(HaveOccurred())

			Expect(p.Shape).To(Equal(plan.ShapeSingle))
			Expect(p.ExplainRequested).To(BeFalse())
			Expect(p.Steps).To(HaveLen(1))
			Expect(p.Steps[0].Number).To(Equal(1))
			Expect(p.Steps[0].QueryText).To(Equal("SELECT AVG([Consumo_km/l]) AS ConsumoMedio\n  FROM tbDatiConsumo\n  WHERE Targa = 'AB123CD'"))
			Expect(p.Steps[0].HasAnalysis()).To(BeFalse())
		})

		It("requests an explanation for flag 1", func() {
			p, err := plan.Parse("  @ SELECT COUNT(*) FROM tbDatiConsumo @1 ")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ExplainRequested).To(BeTrue())
			Expect(p.Steps[0].QueryText).To(Equal("SELECT COUNT(*) FROM tbDatiConsumo"))
		})

		It("stops the query at the first flag", func() {
			p, err := plan.Parse("@SELECT 1@0 trailing @SELECT 2@1")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Steps[0].QueryText).To(Equal("SELECT 1"))
			Expect(p.ExplainRequested).To(BeFalse())
		})

		It("attaches the first python block as analysis code", func() {
			text := "@SELECT Data, [Consumo_km/l] FROM tbDatiConsumo@0\n" +
				"```python\nmodel = fit(df)\njson.dump({'result': 1}, sys.stdout)\n```\n" +
				"```python\nignored()\n```"
			p, err := plan.Parse(text)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Steps[0].AnalysisCode).To(Equal("model = fit(df)\njson.dump({'result': 1}, sys.stdout)"))
		})

		It("ignores markers inside analysis code", func() {
			text := "```python\nx = '@not a query@1'\n```\n@SELECT 1@0"
			p, err := plan.Parse(text)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Steps[0].QueryText).To(Equal("SELECT 1"))
			Expect(p.ExplainRequested).To(BeFalse())
			Expect(p.Steps[0].AnalysisCode).To(Equal("x = '@not a query@1'"))
		})

		DescribeTable("rejects responses without a query block",
			func(text string) {
				_, err := plan.Parse(text)
				Expect(err).To(MatchError(plan.ErrParse))

				var parseErr *plan.ParseError
				Expect(errors.As(err, &parseErr)).To(BeTrue())
				Expect(parseErr.Shape).To(Equal(plan.ShapeSingle))
			},
			Entry("plain prose", "The average is 3.2 km/l."),
			Entry("empty text", ""),
			Entry("missing flag", "@SELECT 1@"),
			Entry("flag 2", "@SELECT 1@2"),
			Entry("empty query", "@@1"),
			Entry("python only", "```python\nprint(1)\n```"),
		)
	})

	Context("multi-step responses", func() {
		It("deduplicates by number and sorts ascending", func() {
			text := "@SELECT b FROM t@3 - 2\n" +
				"@SELECT a FROM t@3 - 1\n" +
				"@SELECT c FROM t@3 - 3\n" +
				"@SELECT duplicate FROM t@3 - 1"
			p, err := plan.Parse(text)
			Expect(err).NotTo(HaveOccurred())

			Expect(p.Shape).To(Equal(plan.ShapeMulti))
			Expect(p.ExplainRequested).To(BeFalse())
			Expect(p.Steps).To(Equal([]plan.Step{
				{Number: 1, QueryText: "SELECT a FROM t"},
				{Number: 2, QueryText: "SELECT b FROM t"},
				{Number: 3, QueryText: "SELECT c FROM t"},
			}))
		})

		It("accepts loose spacing in the suffix", func() {
			p, err := plan.Parse("@SELECT 1@3-1 @SELECT 2@3   -   12")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Steps).To(HaveLen(2))
			Expect(p.Steps[1].Number).To(Equal(12))
		})

		It("matches analysis blocks to steps by number", func() {
			text := "@SELECT COUNT(*) FROM tbDatiConsumo WHERE Targa = 'AB123CD'@3 - 1\n" +
				"@SELECT Data, [Consumo_km/l] FROM tbDatiConsumo@3 - 2\n" +
				"```python\nslope = trend(df)\n```\n@3 - 2\n" +
				"```python\nfirst_wins_loses()\n```@3 - 2"
			p, err := plan.Parse(text)
			Expect(err).NotTo(HaveOccurred())

			Expect(p.Steps).To(HaveLen(2))
			Expect(p.Steps[0].HasAnalysis()).To(BeFalse())
			Expect(p.Steps[1].AnalysisCode).To(Equal("slope = trend(df)"))
		})

		It("does not open query blocks from markers inside analysis code", func() {
			text := "```python\nemail = 'ops@fleet'\n```@3 - 1\n@SELECT 1@3 - 1"
			p, err := plan.Parse(text)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Steps).To(Equal([]plan.Step{
				{Number: 1, QueryText: "SELECT 1", AnalysisCode: "email = 'ops@fleet'"},
			}))
		})

		It("ignores analysis blocks for steps that have no query", func() {
			text := "@SELECT 1@3 - 1\n```python\norphan()\n```@3 - 4"
			p, err := plan.Parse(text)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Steps).To(HaveLen(1))
			Expect(p.Steps[0].HasAnalysis()).To(BeFalse())
		})

		It("fails with a parse error when no query closes", func() {
			_, err := plan.Parse("```python\nx()\n```@3 - 1")

			var parseErr *plan.ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
			Expect(parseErr.Shape).To(Equal(plan.ShapeMulti))
			Expect(err).To(MatchError(plan.ErrParse))
		})
	})
})

var _ = Describe("Plan", func() {
	It("keeps every step's query separately and as a script", func() {
		p := &plan.Plan{Steps: []plan.Step{
			{Number: 1, QueryText: "SELECT 1", AnalysisCode: "a()"},
			{Number: 2, QueryText: "SELECT 2;"},
			{Number: 3, QueryText: "SELECT 3", AnalysisCode: "c()"},
		}}
		Expect(p.Queries()).To(Equal([]string{"SELECT 1", "SELECT 2;", "SELECT 3"}))
		Expect(p.QueryText()).To(Equal("SELECT 1;\n\nSELECT 2;\n\nSELECT 3"))
		Expect(p.AnalysisCode()).To(Equal("a()\n\nc()"))
	})

	It("leaves a single query untouched", func() {
		p := &plan.Plan{Steps: []plan.Step{{Number: 1, QueryText: "SELECT 1;"}}}
		Expect(p.QueryText()).To(Equal("SELECT 1;"))
	})
})
