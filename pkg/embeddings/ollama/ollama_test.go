package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/pkg/embeddings"
	"github.com/papercomputeco/ragsql/pkg/embeddings/ollama"
)

var _ = Describe("Embedder", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
	)

	BeforeEach(func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/embed"))

			var body map[string]any
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			Expect(body["model"]).To(Equal("all-minilm"))
			Expect(body["input"]).To(Equal("hello"))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{0.1, 0.2, 0.3}},
			})
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("defaults the model and base URL", func() {
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(e).NotTo(BeNil())
	})

	It("returns the first embedding", func() {
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL, Model: "all-minilm"})
		Expect(err).NotTo(HaveOccurred())

		vec, err := e.Embed(context.Background(), "hello")
		Expect(err).NotTo(HaveOccurred())
		Expect(vec).To(Equal([]float32{0.1, 0.2, 0.3}))
	})

	It("rejects a vector of the wrong size", func() {
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL, Model: "all-minilm", Dimensions: 4})
		Expect(err).NotTo(HaveOccurred())

		_, err = e.Embed(context.Background(), "hello")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})

	It("wraps non-200 responses", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = e.Embed(context.Background(), "hello")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
		Expect(err.Error()).To(ContainSubstring("404"))
	})

	It("fails on an empty embeddings list", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"embeddings":[]}`))
		}
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = e.Embed(context.Background(), "hello")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})
})
