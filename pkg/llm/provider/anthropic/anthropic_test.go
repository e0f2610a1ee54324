package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/pkg/llm"
	"github.com/papercomputeco/ragsql/pkg/llm/provider/anthropic"
)

var _ = Describe("Completer", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
		body    map[string]any
		headers http.Header
	)

	BeforeEach(func() {
		body = nil
		handler = func(w http.ResponseWriter, r *http.Request) {
			headers = r.Header.Clone()
			_ = json.NewDecoder(r.Body).Decode(&body)
			_, _ = w.Write([]byte(`{"id":"m1","type":"message","content":[{"type":"text","text":"Average "},{"type":"text","text":"is 3.2 km/l."}],"stop_reason":"end_turn"}`))
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newCompleter := func() *anthropic.Completer {
		c, err := anthropic.New(anthropic.Config{BaseURL: server.URL, APIKey: "sk-ant"})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	It("concatenates text blocks", func() {
		out, err := newCompleter().Complete(context.Background(), llm.RoleAnalyst, "results")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Average is 3.2 km/l."))
	})

	It("sends the system framing and auth headers", func() {
		_, err := newCompleter().Complete(context.Background(), llm.RoleExplainer, "explain")
		Expect(err).NotTo(HaveOccurred())

		Expect(headers.Get("x-api-key")).To(Equal("sk-ant"))
		Expect(headers.Get("anthropic-version")).NotTo(BeEmpty())
		Expect(body["system"]).To(Equal(llm.RoleExplainer.System()))
		Expect(body["max_tokens"]).To(BeNumerically("==", anthropic.DefaultMaxTokens))
		Expect(body["messages"]).To(HaveLen(1))
	})

	It("wraps non-200 responses", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
		}
		_, err := newCompleter().Complete(context.Background(), llm.RolePlanner, "q")
		Expect(err).To(MatchError(llm.ErrCompletion))
		Expect(err.Error()).To(ContainSubstring("invalid x-api-key"))
	})

	It("fails on empty content", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"content":[]}`))
		}
		_, err := newCompleter().Complete(context.Background(), llm.RolePlanner, "q")
		Expect(err).To(MatchError(llm.ErrCompletion))
	})
})
