package stack_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/cmd/ragsql/stack"
	"github.com/papercomputeco/ragsql/pkg/config"
	ragsqllog "github.com/papercomputeco/ragsql/pkg/logger"
)

var _ = Describe("ResolvePath", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("keeps absolute paths and in-memory databases", func() {
		Expect(stack.ResolvePath(dir, "/var/lib/ragsql/interactions.db")).To(Equal("/var/lib/ragsql/interactions.db"))
		Expect(stack.ResolvePath(dir, ":memory:")).To(Equal(":memory:"))
	})

	It("places relative paths in the config directory", func() {
		Expect(stack.ResolvePath(dir, "interactions.db")).To(Equal(filepath.Join(dir, "interactions.db")))
	})

	It("keeps relative paths that exist in the working directory", func() {
		origCwd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.Chdir, origCwd)

		cwd := GinkgoT().TempDir()
		Expect(os.Chdir(cwd)).To(Succeed())
		Expect(os.WriteFile("rag.hnsw", []byte{}, 0o600)).To(Succeed())

		Expect(stack.ResolvePath(dir, "rag")).To(Equal("rag"))
	})
})

var _ = Describe("Build", func() {
	var (
		dir string
		cfg *config.Config
		ctx context.Context
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		ctx = context.Background()

		cfg = config.NewDefaultConfig()
		cfg.Storage.Provider = "inmemory"
		cfg.DataStore.Driver = "sqlite"
		cfg.DataStore.DSN = ":memory:"
		cfg.Embedding.Provider = "ollama"
		cfg.Embedding.Target = "http://localhost:11434"
		cfg.Embedding.Dimensions = 4
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Target = "http://localhost:11434"
	})

	It("assembles an orchestrator from the configuration", func() {
		s, err := stack.Build(ctx, cfg, stack.Options{ConfigDir: dir, Logger: ragsqllog.Nop()})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(s.Close)

		Expect(s.Orchestrator).NotTo(BeNil())
		stats, err := s.Orchestrator.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.StoreCount).To(BeZero())
		Expect(stats.IndexCount).To(BeZero())
	})

	It("persists the hnsw index in the config directory on close", func() {
		s, err := stack.Build(ctx, cfg, stack.Options{ConfigDir: dir})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Orchestrator.Vectors().Add(ctx, 1, []float32{1, 0, 0, 0})).To(Succeed())
		Expect(s.Close()).To(Succeed())

		Expect(filepath.Join(dir, "rag.hnsw")).To(BeAnExistingFile())
		Expect(filepath.Join(dir, "rag.ids")).To(BeAnExistingFile())
	})

	It("requires a data store DSN", func() {
		cfg.DataStore.DSN = ""
		_, err := stack.Build(ctx, cfg, stack.Options{ConfigDir: dir})
		Expect(err).To(MatchError(ContainSubstring("datastore.dsn is required")))
	})

	It("rejects an unknown storage provider", func() {
		cfg.Storage.Provider = "mongo"
		_, err := stack.Build(ctx, cfg, stack.Options{ConfigDir: dir})
		Expect(err).To(MatchError(ContainSubstring("unsupported storage provider")))
	})

	It("resets the persisted hnsw index", func() {
		s, err := stack.Build(ctx, cfg, stack.Options{ConfigDir: dir})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Orchestrator.Vectors().Add(ctx, 1, []float32{1, 0, 0, 0})).To(Succeed())
		Expect(s.Close()).To(Succeed())

		Expect(stack.ResetVectors(cfg, dir)).To(Succeed())
		Expect(filepath.Join(dir, "rag.hnsw")).NotTo(BeAnExistingFile())
	})
})
