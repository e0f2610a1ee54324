// Package storagetest holds the behavior every storage.Driver must share,
// as ginkgo specs that backend test suites run against their own driver.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/pkg/storage"
)

// NewInteraction returns a valid interaction for question.
func NewInteraction(question string) *storage.Interaction {
	return &storage.Interaction{
		Question:    question,
		QueryText:   "SELECT SUM(litri) FROM tbDatiConsumo WHERE targa = 'AB123CD'",
		Explanation: "Total liters for the truck.",
		Embedding:   []float32{0.25, -0.5, 0.75},
		CreatedBy:   "mrossi",
	}
}

// DescribeDriver registers the shared driver tests. newDriver is called
// before every test; the driver is closed after it.
func DescribeDriver(newDriver func() storage.Driver) {
	var (
		ctx    context.Context
		driver storage.Driver
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = nil
		driver = newDriver()
	})

	AfterEach(func() {
		if driver != nil {
			Expect(driver.Close()).To(Succeed())
		}
	})

	Describe("Insert", func() {
		It("assigns increasing ids", func() {
			first, err := driver.Insert(ctx, NewInteraction("q1"))
			Expect(err).NotTo(HaveOccurred())
			second, err := driver.Insert(ctx, NewInteraction("q2"))
			Expect(err).NotTo(HaveOccurred())

			Expect(first).To(BeNumerically(">", 0))
			Expect(second).To(BeNumerically(">", first))
		})

		It("updates the caller's struct", func() {
			i := NewInteraction("q")
			id, err := driver.Insert(ctx, i)
			Expect(err).NotTo(HaveOccurred())
			Expect(i.ID).To(Equal(id))
			Expect(i.CreatedAt).NotTo(BeZero())
		})

		It("assigns distinct ids to concurrent inserts", func() {
			const writers = 20

			var (
				wg  sync.WaitGroup
				mu  sync.Mutex
				ids = make(map[int64]struct{}, writers)
			)
			for n := range writers {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					id, err := driver.Insert(ctx, NewInteraction(fmt.Sprintf("q%d", n)))
					Expect(err).NotTo(HaveOccurred())

					mu.Lock()
					ids[id] = struct{}{}
					mu.Unlock()
				}()
			}
			wg.Wait()

			Expect(ids).To(HaveLen(writers))

			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(writers))
		})

		It("rejects invalid interactions", func() {
			_, err := driver.Insert(ctx, nil)
			Expect(err).To(MatchError(storage.ErrNilInteraction))

			missing := NewInteraction("q")
			missing.QueryText = ""
			_, err = driver.Insert(ctx, missing)
			Expect(err).To(MatchError(storage.InvalidInteractionError{Field: "query_text"}))

			noVector := NewInteraction("q")
			noVector.Embedding = nil
			_, err = driver.Insert(ctx, noVector)
			Expect(err).To(HaveOccurred())

			n, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(0))
		})
	})

	Describe("GetByID", func() {
		It("round-trips every field", func() {
			code := "result = df['litri'].sum()"
			in := NewInteraction("How many liters did AB123CD use?")
			in.AnalysisCode = &code
			in.CreatedAt = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

			id, err := driver.Insert(ctx, in)
			Expect(err).NotTo(HaveOccurred())

			out, err := driver.GetByID(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).NotTo(BeNil())
			Expect(out.ID).To(Equal(id))
			Expect(out.Question).To(Equal(in.Question))
			Expect(out.QueryText).To(Equal(in.QueryText))
			Expect(out.Explanation).To(Equal(in.Explanation))
			Expect(out.AnalysisCode).To(HaveValue(Equal(code)))
			Expect(out.Embedding).To(Equal(in.Embedding))
			Expect(out.CreatedBy).To(Equal("mrossi"))
			Expect(out.CreatedAt.Equal(in.CreatedAt)).To(BeTrue())
		})

		It("keeps a missing analysis code nil", func() {
			id, err := driver.Insert(ctx, NewInteraction("q"))
			Expect(err).NotTo(HaveOccurred())

			out, err := driver.GetByID(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.AnalysisCode).To(BeNil())
			Expect(out.QuerySteps).To(BeEmpty())
			Expect(out.Queries()).To(Equal([]string{out.QueryText}))
		})

		It("keeps the queries of a multi-step answer in order", func() {
			in := NewInteraction("Refuels and average consumption of AB123CD")
			in.QuerySteps = []string{
				"SELECT COUNT(*) FROM tbDatiConsumo WHERE targa = 'AB123CD'",
				"SELECT AVG(km) FROM tbDatiConsumo WHERE targa = 'AB123CD'",
			}
			in.QueryText = in.QuerySteps[0] + ";\n\n" + in.QuerySteps[1]

			id, err := driver.Insert(ctx, in)
			Expect(err).NotTo(HaveOccurred())

			out, err := driver.GetByID(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.QuerySteps).To(Equal(in.QuerySteps))
			Expect(out.Queries()).To(Equal(in.QuerySteps))
		})

		It("returns nil without error for an unknown id", func() {
			out, err := driver.GetByID(ctx, 4242)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(BeNil())
		})
	})

	Describe("List and Count", func() {
		It("lists in id order", func() {
			for _, q := range []string{"a", "b", "c"} {
				_, err := driver.Insert(ctx, NewInteraction(q))
				Expect(err).NotTo(HaveOccurred())
			}

			all, err := driver.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
			Expect(all[0].Question).To(Equal("a"))
			Expect(all[2].Question).To(Equal("c"))
			Expect(all[0].ID).To(BeNumerically("<", all[1].ID))

			n, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3))
		})
	})
}
