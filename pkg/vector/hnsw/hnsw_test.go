package hnsw_test

import (
	"context"
	"encoding/binary"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/pkg/logger"
	"github.com/papercomputeco/ragsql/pkg/vector"
	"github.com/papercomputeco/ragsql/pkg/vector/hnsw"
)

const dims = 32

func randomVectors(n int, seed int64) [][]float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float32, n)
	for i := range out {
		v := make([]float32, dims)
		for j := range v {
			v[j] = float32(rng.NormFloat64())
		}
		out[i] = v
	}
	return out
}

func bruteForce(vecs [][]float32, q []float32, k int) []int64 {
	type hit struct {
		id  int64
		sim float32
	}
	qn := vector.Normalize(q)
	hits := make([]hit, len(vecs))
	for i, v := range vecs {
		hits[i] = hit{id: int64(i + 1), sim: vector.Dot(qn, vector.Normalize(v))}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].sim > hits[j].sim })
	ids := make([]int64, k)
	for i := range ids {
		ids[i] = hits[i].id
	}
	return ids
}

var _ = Describe("Index", func() {
	var (
		ctx  context.Context
		base string
		cfg  hnsw.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		base = filepath.Join(GinkgoT().TempDir(), "rag")
		cfg = hnsw.Config{BasePath: base, Dimensions: dims}
	})

	newIndex := func() *hnsw.Index {
		idx, err := hnsw.New(cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		return idx
	}

	fill := func(idx *hnsw.Index, vecs [][]float32) {
		for i, v := range vecs {
			Expect(idx.Add(ctx, int64(i+1), v)).To(Succeed())
		}
	}

	Describe("Search", func() {
		It("returns an empty slice on an empty index", func() {
			idx := newIndex()
			results, err := idx.Search(ctx, make([]float32, dims), 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).NotTo(BeNil())
			Expect(results).To(BeEmpty())
		})

		It("finds a stored vector as its own nearest neighbor", func() {
			idx := newIndex()
			vecs := randomVectors(300, 1)
			fill(idx, vecs)

			hits := 0
			for i, v := range vecs {
				results, err := idx.Search(ctx, v, 1)
				Expect(err).NotTo(HaveOccurred())
				if len(results) == 1 && results[0].ID == int64(i+1) {
					hits++
					Expect(results[0].Similarity).To(BeNumerically("~", 1.0, 1e-4))
				}
			}
			Expect(float64(hits) / float64(len(vecs))).To(BeNumerically(">=", 0.98))
		})

		It("agrees with brute force on top-k recall", func() {
			idx := newIndex()
			vecs := randomVectors(500, 2)
			fill(idx, vecs)

			queries := randomVectors(50, 3)
			found, total := 0, 0
			for _, q := range queries {
				want := bruteForce(vecs, q, 5)
				results, err := idx.Search(ctx, q, 5)
				Expect(err).NotTo(HaveOccurred())
				Expect(results).To(HaveLen(5))

				got := map[int64]bool{}
				for _, r := range results {
					got[r.ID] = true
				}
				for _, id := range want {
					total++
					if got[id] {
						found++
					}
				}
			}
			Expect(float64(found) / float64(total)).To(BeNumerically(">=", 0.9))
		})

		It("orders results by descending similarity", func() {
			idx := newIndex()
			fill(idx, randomVectors(100, 4))

			results, err := idx.Search(ctx, randomVectors(1, 5)[0], 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(10))
			for i := 1; i < len(results); i++ {
				Expect(results[i-1].Similarity).To(BeNumerically(">=", results[i].Similarity))
			}
		})

		It("returns at most the number of stored vectors", func() {
			idx := newIndex()
			fill(idx, randomVectors(2, 6))

			results, err := idx.Search(ctx, randomVectors(1, 7)[0], 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("ignores the magnitude of the query", func() {
			idx := newIndex()
			vecs := randomVectors(50, 8)
			fill(idx, vecs)

			scaled := make([]float32, dims)
			for i, x := range vecs[7] {
				scaled[i] = x * 40
			}
			results, err := idx.Search(ctx, scaled, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].ID).To(Equal(int64(8)))
		})
	})

	Describe("Add", func() {
		It("rejects vectors of the wrong dimension", func() {
			idx := newIndex()
			err := idx.Add(ctx, 1, []float32{1, 2, 3})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
			Expect(idx.Len()).To(Equal(0))
		})

		It("rejects duplicate ids", func() {
			idx := newIndex()
			v := randomVectors(1, 9)[0]
			Expect(idx.Add(ctx, 7, v)).To(Succeed())
			Expect(idx.Add(ctx, 7, v)).To(MatchError(vector.ErrDuplicateID))
			Expect(idx.Len()).To(Equal(1))
		})

		It("rejects ids that do not fit the id file", func() {
			idx := newIndex()
			Expect(idx.Add(ctx, 1<<40, randomVectors(1, 10)[0])).To(MatchError(hnsw.ErrIDOutOfRange))
		})

		It("is safe with concurrent readers", func() {
			idx := newIndex()
			vecs := randomVectors(200, 11)
			fill(idx, vecs[:20])

			var wg sync.WaitGroup
			for r := 0; r < 4; r++ {
				wg.Add(1)
				go func(seed int64) {
					defer GinkgoRecover()
					defer wg.Done()
					for _, q := range randomVectors(50, seed) {
						_, err := idx.Search(ctx, q, 3)
						Expect(err).NotTo(HaveOccurred())
					}
				}(int64(100 + r))
			}

			for i := 20; i < len(vecs); i++ {
				Expect(idx.Add(ctx, int64(i+1), vecs[i])).To(Succeed())
			}
			wg.Wait()

			Expect(idx.Len()).To(Equal(200))
		})
	})

	Describe("persistence", func() {
		It("does not write files for an empty index", func() {
			idx := newIndex()
			Expect(idx.Save()).To(Succeed())
			_, err := os.Stat(base + ".vec")
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("writes fixed width artifacts", func() {
			idx := newIndex()
			fill(idx, randomVectors(10, 12))
			Expect(idx.Save()).To(Succeed())

			vec, err := os.Stat(base + ".vec")
			Expect(err).NotTo(HaveOccurred())
			Expect(vec.Size()).To(Equal(int64(8 + 10*dims*4)))

			ids, err := os.Stat(base + ".ids")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids.Size()).To(Equal(int64(4 + 10*4)))

			graph, err := os.ReadFile(base + ".hnsw")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(graph[:4])).To(Equal("HNSW"))
		})

		It("returns identical results after save and load", func() {
			idx := newIndex()
			fill(idx, randomVectors(200, 13))
			Expect(idx.Save()).To(Succeed())

			reloaded := newIndex()
			Expect(reloaded.Len()).To(Equal(200))

			for _, q := range randomVectors(20, 14) {
				before, err := idx.Search(ctx, q, 5)
				Expect(err).NotTo(HaveOccurred())
				after, err := reloaded.Search(ctx, q, 5)
				Expect(err).NotTo(HaveOccurred())
				Expect(after).To(Equal(before))
			}
		})

		It("keeps accepting vectors after a reload", func() {
			idx := newIndex()
			vecs := randomVectors(30, 15)
			fill(idx, vecs[:20])
			Expect(idx.Save()).To(Succeed())

			reloaded := newIndex()
			for i := 20; i < 30; i++ {
				Expect(reloaded.Add(ctx, int64(i+1), vecs[i])).To(Succeed())
			}

			results, err := reloaded.Search(ctx, vecs[25], 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].ID).To(Equal(int64(26)))
		})

		It("rebuilds the graph when the blob is corrupt", func() {
			idx := newIndex()
			vecs := randomVectors(100, 16)
			fill(idx, vecs)
			Expect(idx.Save()).To(Succeed())

			Expect(os.WriteFile(base+".hnsw", []byte("garbage"), 0o600)).To(Succeed())

			reloaded := newIndex()
			Expect(reloaded.Len()).To(Equal(100))

			results, err := reloaded.Search(ctx, vecs[42], 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].ID).To(Equal(int64(43)))
		})

		It("rebuilds the graph when the blob is missing", func() {
			idx := newIndex()
			vecs := randomVectors(50, 17)
			fill(idx, vecs)
			Expect(idx.Save()).To(Succeed())
			Expect(os.Remove(base + ".hnsw")).To(Succeed())

			reloaded := newIndex()
			results, err := reloaded.Search(ctx, vecs[0], 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].ID).To(Equal(int64(1)))
		})

		It("fails on a truncated vector file", func() {
			idx := newIndex()
			fill(idx, randomVectors(10, 18))
			Expect(idx.Save()).To(Succeed())

			data, err := os.ReadFile(base + ".vec")
			Expect(err).NotTo(HaveOccurred())
			Expect(os.WriteFile(base+".vec", data[:len(data)-10], 0o600)).To(Succeed())

			_, err = hnsw.New(cfg, logger.Nop())
			Expect(err).To(MatchError(hnsw.ErrCorrupt))
		})

		It("fails without allocating when the vector count exceeds the file", func() {
			idx := newIndex()
			fill(idx, randomVectors(3, 21))
			Expect(idx.Save()).To(Succeed())

			data, err := os.ReadFile(base + ".vec")
			Expect(err).NotTo(HaveOccurred())
			binary.LittleEndian.PutUint32(data[:4], math.MaxInt32)
			Expect(os.WriteFile(base+".vec", data, 0o600)).To(Succeed())

			_, err = hnsw.New(cfg, logger.Nop())
			Expect(err).To(MatchError(hnsw.ErrCorrupt))
		})

		It("fails without allocating when the id count exceeds the file", func() {
			idx := newIndex()
			fill(idx, randomVectors(3, 22))
			Expect(idx.Save()).To(Succeed())

			data, err := os.ReadFile(base + ".ids")
			Expect(err).NotTo(HaveOccurred())
			binary.LittleEndian.PutUint32(data[:4], math.MaxInt32)
			Expect(os.WriteFile(base+".ids", data, 0o600)).To(Succeed())

			_, err = hnsw.New(cfg, logger.Nop())
			Expect(err).To(MatchError(hnsw.ErrCorrupt))
		})

		It("fails on trailing bytes after the last id", func() {
			idx := newIndex()
			fill(idx, randomVectors(3, 23))
			Expect(idx.Save()).To(Succeed())

			data, err := os.ReadFile(base + ".ids")
			Expect(err).NotTo(HaveOccurred())
			Expect(os.WriteFile(base+".ids", append(data, 0, 0, 0, 0), 0o600)).To(Succeed())

			_, err = hnsw.New(cfg, logger.Nop())
			Expect(err).To(MatchError(hnsw.ErrCorrupt))
		})

		It("fails when only one of the authoritative files exists", func() {
			idx := newIndex()
			fill(idx, randomVectors(5, 19))
			Expect(idx.Save()).To(Succeed())
			Expect(os.Remove(base + ".ids")).To(Succeed())

			_, err := hnsw.New(cfg, logger.Nop())
			Expect(err).To(MatchError(hnsw.ErrCorrupt))
		})

		It("removes persisted artifacts so the next index starts empty", func() {
			idx := newIndex()
			fill(idx, randomVectors(5, 20))
			Expect(idx.Save()).To(Succeed())

			Expect(hnsw.Remove(base)).To(Succeed())
			Expect(hnsw.Remove(base)).To(Succeed())
			Expect(newIndex().Len()).To(BeZero())
		})

		It("refuses to save without a base path", func() {
			idx, err := hnsw.New(hnsw.Config{Dimensions: dims}, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(idx.Save()).To(MatchError(hnsw.ErrNoBasePath))
		})
	})

	It("applies default parameters", func() {
		idx, err := hnsw.New(hnsw.Config{}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(idx.Dimensions()).To(Equal(1536))
	})
})
