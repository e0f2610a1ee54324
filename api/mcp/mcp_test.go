package mcp_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/api/mcp"
	ragsqllog "github.com/papercomputeco/ragsql/pkg/logger"
	"github.com/papercomputeco/ragsql/pkg/pipeline"
	"github.com/papercomputeco/ragsql/pkg/storage/inmemory"
	testutils "github.com/papercomputeco/ragsql/pkg/utils/test"
)

var _ = Describe("MCP Server", func() {
	var orch *pipeline.Orchestrator

	BeforeEach(func() {
		var err error
		orch, err = pipeline.New(pipeline.Config{
			Embedder:  testutils.NewMockEmbedder(),
			Vectors:   testutils.NewMockVectorDriver(),
			Store:     inmemory.NewDriver(),
			Completer: testutils.NewMockCompleter(),
			Executor:  testutils.NewMockExecutor(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("returns an error when the pipeline is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Logger: ragsqllog.Nop()})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("pipeline is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Pipeline: orch})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("builds an empty server in noop mode", func() {
			server, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})

		It("returns an HTTP handler", func() {
			server, err := mcp.NewServer(mcp.Config{Pipeline: orch, Logger: ragsqllog.Nop()})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})
	})
})
