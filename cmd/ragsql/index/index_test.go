package indexcmder_test

import (
	"bytes"
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	indexcmder "github.com/papercomputeco/ragsql/cmd/ragsql/index"
	"github.com/papercomputeco/ragsql/pkg/storage"
	"github.com/papercomputeco/ragsql/pkg/storage/sqlite"
)

var _ = Describe("Index command", func() {
	var (
		configDir string
		out       *bytes.Buffer
	)

	run := func(args ...string) error {
		cmd := indexcmder.NewIndexCmd()
		cmd.PersistentFlags().String("config-dir", "", "")
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append(args, "--config-dir", configDir, "--embedding-dimensions", "3"))
		return cmd.Execute()
	}

	seed := func(embeddings ...[]float32) {
		store, err := sqlite.NewSQLiteDriver(filepath.Join(configDir, "interactions.db"))
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		for _, e := range embeddings {
			_, err := store.Insert(context.Background(), &storage.Interaction{
				Question:  "trips per truck",
				QueryText: "SELECT truck_id, count(*) FROM trips GROUP BY 1",
				Embedding: e,
				CreatedBy: "dispatch",
			})
			Expect(err).NotTo(HaveOccurred())
		}
	}

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
		out = &bytes.Buffer{}
	})

	It("has rebuild and stats subcommands", func() {
		names := []string{}
		for _, sub := range indexcmder.NewIndexCmd().Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ConsistOf("rebuild", "stats"))
	})

	It("reports an empty store as in sync", func() {
		Expect(run("stats")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("in sync"))
	})

	It("rebuilds a missing index from the store", func() {
		seed([]float32{1, 0, 0}, []float32{0, 1, 0})

		Expect(run("stats")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("out of sync"))

		out.Reset()
		Expect(run("rebuild")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("2"))
		Expect(filepath.Join(configDir, "rag.hnsw")).To(BeAnExistingFile())

		out.Reset()
		Expect(run("stats")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("in sync"))
		Expect(out.String()).NotTo(ContainSubstring("out of sync"))
	})

	It("rebuilds into the sqlite vector store", func() {
		seed([]float32{1, 0, 0})

		Expect(run("rebuild", "--vector-store-provider", "sqlite", "--vector-store-target", "vectors.db")).To(Succeed())
		Expect(filepath.Join(configDir, "vectors.db")).To(BeAnExistingFile())

		// A second rebuild starts from an empty table.
		Expect(run("rebuild", "--vector-store-provider", "sqlite", "--vector-store-target", "vectors.db")).To(Succeed())

		out.Reset()
		Expect(run("stats", "--vector-store-provider", "sqlite", "--vector-store-target", "vectors.db")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("in sync"))
	})
})
