package pipeline_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/pkg/datastore"
	"github.com/papercomputeco/ragsql/pkg/eventstream"
	"github.com/papercomputeco/ragsql/pkg/llm"
	"github.com/papercomputeco/ragsql/pkg/logger"
	"github.com/papercomputeco/ragsql/pkg/pipeline"
	"github.com/papercomputeco/ragsql/pkg/storage/inmemory"
	"github.com/papercomputeco/ragsql/pkg/storage/sqlite"
	testutils "github.com/papercomputeco/ragsql/pkg/utils/test"
	"github.com/papercomputeco/ragsql/pkg/vector/hnsw"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventstream.InteractionConfirmedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e *eventstream.InteractionConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

var _ = Describe("Confirm", func() {
	const explanation = "Average km per litre of AB123CD over all refuels."

	var (
		f         *fixture
		publisher *recordingPublisher
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		f = &fixture{
			embedder:  testutils.NewMockEmbedder(),
			vectors:   testutils.NewMockVectorDriver(),
			store:     inmemory.NewDriver(),
			completer: testutils.NewMockCompleter(),
			executor:  testutils.NewMockExecutor(),
			sandbox:   testutils.NewMockSandbox(),
		}
		f.executor.Tables[avgQuery] = avgTable
		publisher = &recordingPublisher{}

		orch, err := pipeline.New(pipeline.Config{
			Embedder:       f.embedder,
			Vectors:        f.vectors,
			Store:          f.store,
			Completer:      f.completer,
			Executor:       f.executor,
			Sandbox:        f.sandbox,
			Publisher:      publisher,
			VectorProvider: "hnsw",
			Threshold:      pipeline.DefaultThreshold,
		})
		Expect(err).NotTo(HaveOccurred())
		f.orch = orch

		f.embedder.Embeddings[explanation] = []float32{1, 0, 0}
		f.completer.
			On(llm.RolePlanner, "@"+avgQuery+"@0").
			On(llm.RoleExplainer, explanation)
	})

	It("fails when nothing has been answered", func() {
		_, err := f.orch.Confirm(ctx, "mario")
		Expect(err).To(MatchError(pipeline.ErrNothingToConfirm))
	})

	It("requires the validating user", func() {
		_, err := f.orch.Ask(ctx, "average consumption of AB123CD")
		Expect(err).NotTo(HaveOccurred())

		_, err = f.orch.Confirm(ctx, " ")
		Expect(err).To(MatchError(pipeline.ErrMissingCreatedBy))
	})

	It("stores, indexes and publishes the last interaction", func() {
		_, err := f.orch.Ask(ctx, "average consumption of AB123CD")
		Expect(err).NotTo(HaveOccurred())

		interaction, err := f.orch.Confirm(ctx, "mario")
		Expect(err).NotTo(HaveOccurred())

		Expect(interaction.ID).To(Equal(int64(1)))
		Expect(interaction.Question).To(Equal("average consumption of AB123CD"))
		Expect(interaction.QueryText).To(Equal(avgQuery))
		Expect(interaction.Explanation).To(Equal(explanation))
		Expect(interaction.AnalysisCode).To(BeNil())
		Expect(interaction.CreatedBy).To(Equal("mario"))

		calls := f.completer.CallsFor(llm.RoleExplainer)
		Expect(calls).To(HaveLen(1))
		Expect(calls[0].Prompt).To(Equal("average consumption of AB123CD\nSQL:\n" + avgQuery))

		Expect(f.embedder.Texts).To(ContainElement(explanation))

		stored, err := f.store.GetByID(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Embedding).To(Equal([]float32{1, 0, 0}))

		Expect(f.vectors.Order).To(Equal([]int64{1}))
		Expect(f.vectors.Added[1]).To(Equal([]float32{1, 0, 0}))
		Expect(f.vectors.Saves).To(Equal(1))

		Expect(publisher.events).To(HaveLen(1))
		event := publisher.events[0]
		Expect(event.EventType).To(Equal(eventstream.EventTypeInteractionConfirmed))
		Expect(event.Interaction.ID).To(Equal(int64(1)))
		Expect(event.Interaction.CreatedBy).To(Equal("mario"))
		Expect(event.Index).To(Equal(eventstream.IndexMeta{Provider: "hnsw", Count: 1}))
	})

	It("keeps the analysis code of the confirmed answer", func() {
		f.completer.Responses[llm.RolePlanner] = []string{"@" + avgQuery + "@0\n```python\nprint(df.mean())\n```"}

		_, err := f.orch.Ask(ctx, "average consumption of AB123CD")
		Expect(err).NotTo(HaveOccurred())

		interaction, err := f.orch.Confirm(ctx, "mario")
		Expect(err).NotTo(HaveOccurred())
		Expect(interaction.AnalysisCode).NotTo(BeNil())
		Expect(*interaction.AnalysisCode).To(Equal("print(df.mean())"))
	})

	It("forgets the interaction once confirmed", func() {
		_, err := f.orch.Ask(ctx, "average consumption of AB123CD")
		Expect(err).NotTo(HaveOccurred())

		_, err = f.orch.Confirm(ctx, "mario")
		Expect(err).NotTo(HaveOccurred())

		_, ok := f.orch.LastInteraction()
		Expect(ok).To(BeFalse())

		_, err = f.orch.Confirm(ctx, "mario")
		Expect(err).To(MatchError(pipeline.ErrNothingToConfirm))
	})

	It("succeeds when publishing fails", func() {
		publisher.err = errors.New("broker down")

		_, err := f.orch.Ask(ctx, "average consumption of AB123CD")
		Expect(err).NotTo(HaveOccurred())

		_, err = f.orch.Confirm(ctx, "mario")
		Expect(err).NotTo(HaveOccurred())
		Expect(publisher.events).To(HaveLen(1))
	})

	It("keeps the interaction pending when the explainer fails", func() {
		_, err := f.orch.Ask(ctx, "average consumption of AB123CD")
		Expect(err).NotTo(HaveOccurred())

		f.completer.Errors[llm.RoleExplainer] = llm.ErrCompletion
		_, err = f.orch.Confirm(ctx, "mario")
		Expect(err).To(MatchError(llm.ErrCompletion))

		count, err := f.store.Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(BeZero())

		_, ok := f.orch.LastInteraction()
		Expect(ok).To(BeTrue())
	})

	It("reports an indexing failure after the interaction is stored", func() {
		f.vectors.AddErr = errors.New("disk full")

		_, err := f.orch.Ask(ctx, "average consumption of AB123CD")
		Expect(err).NotTo(HaveOccurred())

		_, err = f.orch.Confirm(ctx, "mario")
		Expect(err).To(HaveOccurred())

		count, err := f.store.Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(1))
		Expect(publisher.events).To(BeEmpty())
	})
})

var _ = Describe("Reindex", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("rebuilds an index from stored embeddings", func() {
		f := newFixture()
		f.storeInteraction("q1", avgQuery, "e1")
		f.storeInteraction("q2", countQuery, "e2")

		dst := testutils.NewMockVectorDriver()
		n, err := pipeline.Reindex(ctx, f.store, dst, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))
		Expect(dst.Order).To(Equal([]int64{1, 2}))
		Expect(dst.Saves).To(Equal(1))
	})

	It("swaps in the rebuilt driver and closes the old one", func() {
		f := newFixture()
		f.storeInteraction("q1", avgQuery, "e1")

		dst := testutils.NewMockVectorDriver()
		n, err := f.orch.Reindex(ctx, dst)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
		Expect(f.vectors.Closed).To(BeTrue())
		Expect(f.orch.Vectors()).To(BeIdenticalTo(dst))

		stats, err := f.orch.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(Equal(pipeline.Stats{StoreCount: 1, IndexCount: 1}))
		Expect(stats.InSync()).To(BeTrue())
	})

	It("reports a store and index mismatch", func() {
		f := newFixture()
		f.storeInteraction("q1", avgQuery, "e1")

		stats, err := f.orch.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.InSync()).To(BeFalse())
	})
})

var _ = Describe("End to end", func() {
	It("answers a repeated question from the validated interaction", func() {
		ctx := context.Background()

		const (
			first       = "What is the average consumption of AB123CD in 2023?"
			rephrased   = "Average km/l for AB123CD during 2023?"
			explanation = "Average consumption of vehicle AB123CD in 2023."
		)

		embedder := testutils.NewMockEmbedder()
		embedder.Embeddings[first] = []float32{0, 1, 0}
		embedder.Embeddings[explanation] = []float32{1, 0, 0}
		embedder.Embeddings[rephrased] = []float32{0.99, 0.1, 0}

		index, err := hnsw.New(hnsw.Config{
			BasePath:   filepath.Join(GinkgoT().TempDir(), "interactions"),
			Dimensions: 3,
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		completer := testutils.NewMockCompleter().
			On(llm.RolePlanner, "@"+avgQuery+"@0").
			On(llm.RoleExplainer, explanation)

		executor := testutils.NewMockExecutor()
		executor.Tables[avgQuery] = avgTable

		orch, err := pipeline.New(pipeline.Config{
			Embedder:  embedder,
			Vectors:   index,
			Store:     inmemory.NewDriver(),
			Completer: completer,
			Executor:  executor,
			Threshold: pipeline.DefaultThreshold,
		})
		Expect(err).NotTo(HaveOccurred())

		answer, err := orch.Ask(ctx, first)
		Expect(err).NotTo(HaveOccurred())
		Expect(answer.Source).To(Equal(pipeline.SourceSingle))

		interaction, err := orch.Confirm(ctx, "mario")
		Expect(err).NotTo(HaveOccurred())

		answer, err = orch.Ask(ctx, rephrased)
		Expect(err).NotTo(HaveOccurred())
		Expect(answer.Source).To(Equal(pipeline.SourceRAG))
		Expect(answer.MatchedInteractionID).To(Equal(interaction.ID))
		Expect(answer.Similarity).To(BeNumerically(">", 0.9))
		Expect(answer.Explanation).To(Equal(explanation))
		Expect(answer.Steps[0].Table).To(Equal(avgTable))
		Expect(completer.CallsFor(llm.RolePlanner)).To(HaveLen(1))
	})

	It("replays every step of a confirmed multi-step answer against the database", func() {
		ctx := context.Background()

		const (
			first       = "How many refuels did AB123CD have and what was its average consumption?"
			rephrased   = "Refuel count and mean km/l for AB123CD?"
			explanation = "Counts the refuels of AB123CD, then averages their consumption."
		)

		executor, err := datastore.Open(ctx, datastore.Config{
			Driver: datastore.DriverSQLite,
			DSN:    ":memory:",
		}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(executor.Close)

		_, err = executor.DB().ExecContext(ctx, `CREATE TABLE tbDatiConsumo (
			ID INTEGER PRIMARY KEY,
			Targa TEXT,
			[Consumo_km/l] REAL
		)`)
		Expect(err).NotTo(HaveOccurred())
		_, err = executor.DB().ExecContext(ctx, `INSERT INTO tbDatiConsumo (Targa, [Consumo_km/l]) VALUES
			('AB123CD', 3.0),
			('AB123CD', 4.0),
			('ZZ999ZZ', 9.0)`)
		Expect(err).NotTo(HaveOccurred())

		store, err := sqlite.NewSQLiteDriver(":memory:")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		embedder := testutils.NewMockEmbedder()
		embedder.Embeddings[first] = []float32{0, 1, 0}
		embedder.Embeddings[explanation] = []float32{1, 0, 0}
		embedder.Embeddings[rephrased] = []float32{0.99, 0.1, 0}

		index, err := hnsw.New(hnsw.Config{
			BasePath:   filepath.Join(GinkgoT().TempDir(), "interactions"),
			Dimensions: 3,
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		completer := testutils.NewMockCompleter().
			On(llm.RolePlanner, "@"+countQuery+"@3 - 1\n@"+avgQuery+"@3 - 2").
			On(llm.RoleAnalyst, "Two refuels averaging 3.5 km/l.").
			On(llm.RoleExplainer, explanation)

		orch, err := pipeline.New(pipeline.Config{
			Embedder:  embedder,
			Vectors:   index,
			Store:     store,
			Completer: completer,
			Executor:  executor,
			Threshold: pipeline.DefaultThreshold,
		})
		Expect(err).NotTo(HaveOccurred())

		answer, err := orch.Ask(ctx, first)
		Expect(err).NotTo(HaveOccurred())
		Expect(answer.Source).To(Equal(pipeline.SourceMulti))

		interaction, err := orch.Confirm(ctx, "mario")
		Expect(err).NotTo(HaveOccurred())

		stored, err := store.GetByID(ctx, interaction.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.QuerySteps).To(Equal([]string{countQuery, avgQuery}))

		answer, err = orch.Ask(ctx, rephrased)
		Expect(err).NotTo(HaveOccurred())
		Expect(answer.Source).To(Equal(pipeline.SourceRAG))
		Expect(answer.MatchedInteractionID).To(Equal(interaction.ID))
		Expect(answer.Steps).To(HaveLen(2))
		Expect(answer.Steps[0].Number).To(Equal(1))
		Expect(answer.Steps[1].Number).To(Equal(2))
		Expect(answer.Steps[0].Table.Columns).To(Equal([]string{"n"}))
		Expect(answer.Steps[0].Table.Rows).To(Equal([][]any{{int64(2)}}))
		Expect(answer.Steps[1].Table.Columns).To(Equal([]string{"ConsumoMedio"}))
		Expect(answer.Steps[1].Table.Rows).To(Equal([][]any{{3.5}}))
		Expect(completer.CallsFor(llm.RolePlanner)).To(HaveLen(1))
	})
})
