package pipeline_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/pkg/datastore"
	"github.com/papercomputeco/ragsql/pkg/llm"
	"github.com/papercomputeco/ragsql/pkg/pipeline"
	"github.com/papercomputeco/ragsql/pkg/plan"
	"github.com/papercomputeco/ragsql/pkg/sandbox"
	"github.com/papercomputeco/ragsql/pkg/storage"
	"github.com/papercomputeco/ragsql/pkg/storage/inmemory"
	testutils "github.com/papercomputeco/ragsql/pkg/utils/test"
	"github.com/papercomputeco/ragsql/pkg/vector"
)

const (
	avgQuery   = `SELECT AVG("Consumo_km/l") AS ConsumoMedio FROM tbDatiConsumo WHERE Targa = 'AB123CD'`
	countQuery = `SELECT COUNT(*) AS n FROM tbDatiConsumo WHERE Targa = 'AB123CD'`
	badQuery   = `SELECT AVG(Consumo) FROM tbDatiConsumo`
)

var avgTable = &datastore.Table{
	Columns: []string{"ConsumoMedio"},
	Rows:    [][]any{{14.2}},
}

var countTable = &datastore.Table{
	Columns: []string{"n"},
	Rows:    [][]any{{int64(12)}},
}

type fixture struct {
	embedder  *testutils.MockEmbedder
	vectors   *testutils.MockVectorDriver
	store     *inmemory.Driver
	completer *testutils.MockCompleter
	executor  *testutils.MockExecutor
	sandbox   *testutils.MockSandbox
	events    []pipeline.Event
	orch      *pipeline.Orchestrator
}

func newFixture() *fixture {
	f := &fixture{
		embedder:  testutils.NewMockEmbedder(),
		vectors:   testutils.NewMockVectorDriver(),
		store:     inmemory.NewDriver(),
		completer: testutils.NewMockCompleter(),
		executor:  testutils.NewMockExecutor(),
		sandbox:   testutils.NewMockSandbox(),
	}
	f.executor.Tables[avgQuery] = avgTable
	f.executor.Tables[countQuery] = countTable

	orch, err := pipeline.New(pipeline.Config{
		Embedder:  f.embedder,
		Vectors:   f.vectors,
		Store:     f.store,
		Completer: f.completer,
		Executor:  f.executor,
		Sandbox:   f.sandbox,
		Progress:  func(e pipeline.Event) { f.events = append(f.events, e) },
		Threshold: pipeline.DefaultThreshold,
	})
	Expect(err).NotTo(HaveOccurred())
	f.orch = orch
	return f
}

func (f *fixture) states() []pipeline.State {
	var states []pipeline.State
	for _, e := range f.events {
		if len(states) == 0 || states[len(states)-1] != e.State {
			states = append(states, e.State)
		}
	}
	return states
}

func (f *fixture) storeInteraction(question, query, explanation string) int64 {
	id, err := f.store.Insert(context.Background(), &storage.Interaction{
		Question:    question,
		QueryText:   query,
		Explanation: explanation,
		Embedding:   []float32{1, 0, 0},
		CreatedBy:   "mario",
	})
	Expect(err).NotTo(HaveOccurred())
	return id
}

var _ = Describe("Orchestrator", func() {
	var (
		f   *fixture
		ctx context.Context
	)

	BeforeEach(func() {
		f = newFixture()
		ctx = context.Background()
	})

	Describe("New", func() {
		It("requires every mandatory collaborator", func() {
			_, err := pipeline.New(pipeline.Config{Embedder: f.embedder})
			Expect(err).To(HaveOccurred())
		})

		It("runs without a sandbox or publisher", func() {
			_, err := pipeline.New(pipeline.Config{
				Embedder:  f.embedder,
				Vectors:   f.vectors,
				Store:     f.store,
				Completer: f.completer,
				Executor:  f.executor,
			})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Ask", func() {
		It("rejects a blank question", func() {
			_, err := f.orch.Ask(ctx, "   ")
			Expect(err).To(MatchError(pipeline.ErrEmptyQuestion))
		})

		Context("with a similar validated interaction", func() {
			var id int64

			BeforeEach(func() {
				id = f.storeInteraction("average consumption of AB123CD", avgQuery, "The average is computed over every refuel.")
			})

			It("reuses it above the threshold without calling the model", func() {
				f.vectors.Results = []vector.Result{{ID: id, Similarity: 0.71}}

				answer, err := f.orch.Ask(ctx, "what's the mean consumption of AB123CD?")
				Expect(err).NotTo(HaveOccurred())

				Expect(answer.Source).To(Equal(pipeline.SourceRAG))
				Expect(answer.MatchedInteractionID).To(Equal(id))
				Expect(answer.Similarity).To(BeNumerically("~", 0.71, 1e-6))
				Expect(answer.Explanation).To(Equal("The average is computed over every refuel."))
				Expect(answer.Steps).To(HaveLen(1))
				Expect(answer.Steps[0].Table).To(Equal(avgTable))
				Expect(f.executor.Queries).To(Equal([]string{avgQuery}))
				Expect(f.completer.Calls).To(BeEmpty())

				Expect(answer.Messages).To(HaveLen(2))
				Expect(answer.Messages[0].Kind).To(Equal(pipeline.KindTable))
				Expect(answer.Messages[1].Text).To(Equal("The average is computed over every refuel."))

				_, ok := f.orch.LastInteraction()
				Expect(ok).To(BeFalse())
				Expect(f.states()).To(ContainElement(pipeline.StateRagHit))
			})

			It("plans from scratch below the threshold", func() {
				f.vectors.Results = []vector.Result{{ID: id, Similarity: 0.69}}
				f.completer.On(llm.RolePlanner, "@"+countQuery+"@0")

				answer, err := f.orch.Ask(ctx, "how many refuels for AB123CD?")
				Expect(err).NotTo(HaveOccurred())
				Expect(answer.Source).To(Equal(pipeline.SourceSingle))
				Expect(f.completer.CallsFor(llm.RolePlanner)).To(HaveLen(1))
			})

			It("treats a similarity equal to the threshold as a miss", func() {
				f.vectors.Results = []vector.Result{{ID: id, Similarity: pipeline.DefaultThreshold}}
				f.completer.On(llm.RolePlanner, "@"+countQuery+"@0")

				answer, err := f.orch.Ask(ctx, "how many refuels for AB123CD?")
				Expect(err).NotTo(HaveOccurred())
				Expect(answer.Source).To(Equal(pipeline.SourceSingle))
			})

			It("reuses any positive similarity with a zero threshold", func() {
				orch, err := pipeline.New(pipeline.Config{
					Embedder:  f.embedder,
					Vectors:   f.vectors,
					Store:     f.store,
					Completer: f.completer,
					Executor:  f.executor,
					Threshold: 0,
				})
				Expect(err).NotTo(HaveOccurred())
				f.vectors.Results = []vector.Result{{ID: id, Similarity: 0.1}}

				answer, err := orch.Ask(ctx, "anything about AB123CD")
				Expect(err).NotTo(HaveOccurred())
				Expect(answer.Source).To(Equal(pipeline.SourceRAG))
				Expect(answer.MatchedInteractionID).To(Equal(id))
				Expect(f.completer.Calls).To(BeEmpty())
			})

			It("fails terminally when the stored query no longer runs", func() {
				f.vectors.Results = []vector.Result{{ID: id, Similarity: 0.9}}
				f.executor.FailWith(avgQuery, "no such table: tbDatiConsumo")

				_, err := f.orch.Ask(ctx, "average consumption of AB123CD")

				var perr *pipeline.Error
				Expect(errors.As(err, &perr)).To(BeTrue())
				Expect(perr.Stage).To(Equal(pipeline.StateRagHit))
				Expect(perr.Class()).To(Equal(pipeline.ClassExecution))
				Expect(f.completer.Calls).To(BeEmpty())
			})
		})

		It("falls through to planning when the indexed id is missing from the store", func() {
			f.vectors.Results = []vector.Result{{ID: 99, Similarity: 0.95}}
			f.completer.On(llm.RolePlanner, "@"+countQuery+"@0")

			answer, err := f.orch.Ask(ctx, "how many refuels for AB123CD?")
			Expect(err).NotTo(HaveOccurred())
			Expect(answer.Source).To(Equal(pipeline.SourceSingle))
		})

		Context("with a single-step plan", func() {
			It("executes the query and records the last interaction", func() {
				f.completer.On(llm.RolePlanner, "@"+avgQuery+"@0")

				answer, err := f.orch.Ask(ctx, "average consumption of AB123CD")
				Expect(err).NotTo(HaveOccurred())

				Expect(answer.Source).To(Equal(pipeline.SourceSingle))
				Expect(answer.Corrected).To(BeFalse())
				Expect(answer.Explanation).To(BeEmpty())
				Expect(answer.Messages).To(HaveLen(1))
				Expect(answer.Messages[0].Text).To(ContainSubstring("| ConsumoMedio |"))
				Expect(f.completer.CallsFor(llm.RoleExplainer)).To(BeEmpty())

				last, ok := f.orch.LastInteraction()
				Expect(ok).To(BeTrue())
				Expect(last).To(Equal(pipeline.LastInteraction{
					Question:  "average consumption of AB123CD",
					QueryText: avgQuery,
				}))

				Expect(f.states()).To(Equal([]pipeline.State{
					pipeline.StateStart,
					pipeline.StateRagLookup,
					pipeline.StatePlanRequest,
					pipeline.StatePlanExecute,
					pipeline.StateSuccess,
				}))
			})

			It("sends the schema and question to the planner", func() {
				f.completer.On(llm.RolePlanner, "@"+avgQuery+"@0")

				_, err := f.orch.Ask(ctx, "average consumption of AB123CD")
				Expect(err).NotTo(HaveOccurred())

				prompt := f.completer.CallsFor(llm.RolePlanner)[0].Prompt
				Expect(prompt).To(ContainSubstring("tbDatiConsumo"))
				Expect(prompt).To(HaveSuffix("User question: average consumption of AB123CD\n"))
			})

			It("asks the explainer when the flag requests it", func() {
				f.completer.
					On(llm.RolePlanner, "@"+avgQuery+"@1").
					On(llm.RoleExplainer, "About 14 km per litre.")

				answer, err := f.orch.Ask(ctx, "average consumption of AB123CD")
				Expect(err).NotTo(HaveOccurred())

				Expect(answer.Explanation).To(Equal("About 14 km per litre."))
				Expect(answer.Messages).To(HaveLen(2))
				Expect(answer.Messages[1].Kind).To(Equal(pipeline.KindText))

				prompt := f.completer.CallsFor(llm.RoleExplainer)[0].Prompt
				Expect(prompt).To(ContainSubstring("SQL query: " + avgQuery))
				Expect(prompt).To(ContainSubstring("| 14.2 |"))
			})

			It("runs the analysis code in the sandbox", func() {
				f.sandbox.Output = &sandbox.AnalysisOutput{Result: "15.1", Formula: "y=mx+b", Explanation: "linear trend"}
				f.completer.On(llm.RolePlanner, "@"+avgQuery+"@0\n```python\nprint(df)\n```")

				answer, err := f.orch.Ask(ctx, "forecast consumption of AB123CD")
				Expect(err).NotTo(HaveOccurred())

				Expect(f.sandbox.Calls).To(HaveLen(1))
				Expect(f.sandbox.Calls[0].Code).To(Equal("print(df)"))
				Expect(f.sandbox.Calls[0].Table).To(Equal(avgTable))

				Expect(answer.Steps[0].Analysis).To(Equal(f.sandbox.Output))
				Expect(answer.Messages).To(HaveLen(2))
				Expect(answer.Messages[1].Kind).To(Equal(pipeline.KindAnalysis))
				Expect(answer.Messages[1].Text).To(ContainSubstring("15.1"))

				last, _ := f.orch.LastInteraction()
				Expect(last.AnalysisCode).To(Equal("print(df)"))
				Expect(f.states()).To(ContainElement(pipeline.StateExport))
			})

			It("degrades to an inline message when the analysis fails", func() {
				f.sandbox.Err = &sandbox.Error{Stage: sandbox.StageExit, ExitCode: 1, Stderr: "ModuleNotFoundError"}
				f.completer.On(llm.RolePlanner, "@"+avgQuery+"@0\n```python\nimport nothing\n```")

				answer, err := f.orch.Ask(ctx, "forecast consumption of AB123CD")
				Expect(err).NotTo(HaveOccurred())

				Expect(answer.Steps[0].Analysis).To(BeNil())
				Expect(answer.Steps[0].AnalysisError).NotTo(BeEmpty())
				Expect(answer.Messages[1].Text).To(HavePrefix("Analysis unavailable: "))
				Expect(answer.Steps[0].Table).To(Equal(avgTable))
			})
		})

		Context("with a multi-step plan", func() {
			It("executes steps in order and asks the analyst for a synthesis", func() {
				f.completer.
					On(llm.RolePlanner, "@"+avgQuery+"@3 - 2\n@"+countQuery+"@3 - 1").
					On(llm.RoleAnalyst, "Twelve refuels averaging 14.2 km/l.")

				answer, err := f.orch.Ask(ctx, "compare refuels and consumption of AB123CD")
				Expect(err).NotTo(HaveOccurred())

				Expect(answer.Source).To(Equal(pipeline.SourceMulti))
				Expect(f.executor.Queries).To(Equal([]string{countQuery, avgQuery}))
				Expect(answer.Steps).To(HaveLen(2))
				Expect(answer.Steps[0].Number).To(Equal(1))
				Expect(answer.Steps[1].Number).To(Equal(2))
				Expect(answer.Synthesis).To(Equal("Twelve refuels averaging 14.2 km/l."))

				calls := f.completer.CallsFor(llm.RoleAnalyst)
				Expect(calls).To(HaveLen(1))
				Expect(calls[0].Prompt).To(ContainSubstring("Step 1:"))
				Expect(calls[0].Prompt).To(ContainSubstring("Step 2:"))

				Expect(answer.Messages).To(HaveLen(3))
				Expect(answer.Messages[0].Text).To(HavePrefix("**Step 1:**"))
				Expect(answer.Messages[2].Text).To(Equal("Twelve refuels averaging 14.2 km/l."))

				last, ok := f.orch.LastInteraction()
				Expect(ok).To(BeTrue())
				Expect(last.QueryText).To(Equal(countQuery + ";\n\n" + avgQuery))
				Expect(last.QuerySteps).To(Equal([]string{countQuery, avgQuery}))
				Expect(f.states()).To(ContainElement(pipeline.StateSynthesis))
			})

			It("reports per-step progress", func() {
				f.completer.
					On(llm.RolePlanner, "@"+avgQuery+"@3 - 1\n@"+countQuery+"@3 - 2").
					On(llm.RoleAnalyst, "ok")

				_, err := f.orch.Ask(ctx, "compare")
				Expect(err).NotTo(HaveOccurred())

				var steps []int
				for _, e := range f.events {
					if e.State == pipeline.StatePlanExecute && e.Steps > 0 {
						Expect(e.Steps).To(Equal(2))
						steps = append(steps, e.Step)
					}
				}
				Expect(steps).To(Equal([]int{1, 2}))
			})

			It("stops at the first failing step", func() {
				f.executor.FailWith(badQuery, "no such column: Consumo")
				f.executor.FailWith(countQuery, "still broken")
				f.completer.
					On(llm.RolePlanner, "@"+badQuery+"@3 - 1\n@"+avgQuery+"@3 - 2").
					On(llm.RoleCorrector, "@"+countQuery+"@0")

				_, err := f.orch.Ask(ctx, "compare")
				Expect(err).To(HaveOccurred())
				Expect(f.executor.Queries).NotTo(ContainElement(avgQuery))
				Expect(f.completer.CallsFor(llm.RoleAnalyst)).To(BeEmpty())
			})
		})

		Context("when execution fails", func() {
			BeforeEach(func() {
				f.executor.FailWith(badQuery, "no such column: Consumo")
			})

			It("retries once with the corrector's completion", func() {
				f.completer.
					On(llm.RolePlanner, "@"+badQuery+"@0").
					On(llm.RoleCorrector, "@"+avgQuery+"@0")

				answer, err := f.orch.Ask(ctx, "average consumption of AB123CD")
				Expect(err).NotTo(HaveOccurred())

				Expect(answer.Corrected).To(BeTrue())
				Expect(answer.Steps[0].Table).To(Equal(avgTable))

				calls := f.completer.CallsFor(llm.RoleCorrector)
				Expect(calls).To(HaveLen(1))
				Expect(calls[0].Prompt).To(HavePrefix("QUESTION:\naverage consumption of AB123CD\n\nPROMPT:\n"))
				Expect(calls[0].Prompt).To(ContainSubstring("\n\nANSWER:\n@" + badQuery + "@0"))
				Expect(calls[0].Prompt).To(HaveSuffix("\n\nERROR:\nno such column: Consumo"))

				last, _ := f.orch.LastInteraction()
				Expect(last.QueryText).To(Equal(avgQuery))
				Expect(f.states()).To(ContainElement(pipeline.StateCorrectionRetry))
			})

			It("fails after a second execution error without retrying again", func() {
				f.completer.
					On(llm.RolePlanner, "@"+badQuery+"@0").
					On(llm.RoleCorrector, "@"+badQuery+"@0")

				_, err := f.orch.Ask(ctx, "average consumption of AB123CD")

				var perr *pipeline.Error
				Expect(errors.As(err, &perr)).To(BeTrue())
				Expect(perr.Retried).To(BeTrue())
				Expect(perr.Class()).To(Equal(pipeline.ClassExecution))
				Expect(f.completer.CallsFor(llm.RoleCorrector)).To(HaveLen(1))
				Expect(f.executor.Queries).To(HaveLen(2))

				_, ok := f.orch.LastInteraction()
				Expect(ok).To(BeFalse())
				Expect(f.events[len(f.events)-1].State).To(Equal(pipeline.StateFailure))
			})

			It("surfaces a parse failure of the corrected completion", func() {
				f.completer.
					On(llm.RolePlanner, "@"+badQuery+"@0").
					On(llm.RoleCorrector, "Sorry, I cannot help.")

				_, err := f.orch.Ask(ctx, "average consumption of AB123CD")
				Expect(errors.Is(err, plan.ErrParse)).To(BeTrue())
				Expect(pipeline.Classify(err)).To(Equal(pipeline.ClassParse))
			})

			It("does not retry once the context is done", func() {
				cctx, cancel := context.WithCancel(ctx)
				f.completer.On(llm.RolePlanner, "@"+avgQuery+"@0")
				cancel()

				_, err := f.orch.Ask(cctx, "average consumption of AB123CD")
				Expect(pipeline.Classify(err)).To(Equal(pipeline.ClassCancelled))
				Expect(f.completer.CallsFor(llm.RoleCorrector)).To(BeEmpty())
			})
		})

		It("does not retry a completion it cannot parse", func() {
			f.completer.On(llm.RolePlanner, "The average is about 14 km/l.")

			_, err := f.orch.Ask(ctx, "average consumption of AB123CD")

			var perr *pipeline.Error
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Stage).To(Equal(pipeline.StatePlanExecute))
			Expect(perr.Retried).To(BeFalse())
			Expect(perr.Class()).To(Equal(pipeline.ClassParse))
			Expect(f.completer.CallsFor(llm.RoleCorrector)).To(BeEmpty())
		})

		It("classifies embedding failures as transport errors", func() {
			f.embedder.FailOn = "average consumption of AB123CD"

			_, err := f.orch.Ask(ctx, "average consumption of AB123CD")

			var perr *pipeline.Error
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Stage).To(Equal(pipeline.StateRagLookup))
			Expect(perr.Class()).To(Equal(pipeline.ClassTransport))
		})

		It("classifies completion failures as transport errors", func() {
			f.completer.Errors[llm.RolePlanner] = llm.ErrCompletion

			_, err := f.orch.Ask(ctx, "average consumption of AB123CD")

			var perr *pipeline.Error
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Stage).To(Equal(pipeline.StatePlanRequest))
			Expect(perr.Class()).To(Equal(pipeline.ClassTransport))
		})

		It("keeps the previous last interaction when a later question fails", func() {
			f.completer.On(llm.RolePlanner, "@"+avgQuery+"@0", "not a plan")

			_, err := f.orch.Ask(ctx, "average consumption of AB123CD")
			Expect(err).NotTo(HaveOccurred())
			_, err = f.orch.Ask(ctx, "something else")
			Expect(err).To(HaveOccurred())

			last, ok := f.orch.LastInteraction()
			Expect(ok).To(BeTrue())
			Expect(last.Question).To(Equal("average consumption of AB123CD"))
		})
	})
})
