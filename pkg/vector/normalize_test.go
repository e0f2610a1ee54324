package vector_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/pkg/vector"
)

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

var _ = Describe("Normalize", func() {
	It("scales to unit length", func() {
		v := vector.Normalize([]float32{3, 4})
		Expect(v[0]).To(BeNumerically("~", 0.6, 1e-6))
		Expect(v[1]).To(BeNumerically("~", 0.8, 1e-6))
		Expect(norm(v)).To(BeNumerically("~", 1.0, 1e-6))
	})

	It("is idempotent", func() {
		once := vector.Normalize([]float32{0.3, -1.7, 2.2, 9.1})
		twice := vector.Normalize(once)
		for i := range once {
			Expect(twice[i]).To(BeNumerically("~", once[i], 1e-6))
		}
	})

	It("leaves the zero vector unchanged", func() {
		zero := []float32{0, 0, 0}
		Expect(vector.Normalize(zero)).To(Equal([]float32{0, 0, 0}))
	})

	It("returns a separate slice for the zero vector", func() {
		zero := []float32{0, 0, 0}
		out := vector.Normalize(zero)
		out[0] = 1
		Expect(zero).To(Equal([]float32{0, 0, 0}))
	})

	It("does not mutate its input", func() {
		in := []float32{2, 0}
		_ = vector.Normalize(in)
		Expect(in).To(Equal([]float32{2, 0}))
	})
})

var _ = Describe("Dot", func() {
	It("equals cosine similarity for unit vectors", func() {
		a := vector.Normalize([]float32{1, 1})
		b := vector.Normalize([]float32{1, 0})
		Expect(vector.Dot(a, b)).To(BeNumerically("~", math.Sqrt2/2, 1e-6))
	})
})
