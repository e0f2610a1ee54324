package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/pkg/dotdir"
)

// workIn switches into dir until the test ends.
func workIn(dir string) {
	GinkgoHelper()
	prev, err := os.Getwd()
	Expect(err).NotTo(HaveOccurred())
	Expect(os.Chdir(dir)).To(Succeed())
	DeferCleanup(os.Chdir, prev)
}

var _ = Describe("Manager", func() {
	var (
		root string
		m    *dotdir.Manager
	)

	BeforeEach(func() {
		var err error
		// macOS temp dirs sit behind a /var symlink; Target returns real paths.
		root, err = filepath.EvalSymlinks(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		GinkgoT().Setenv("HOME", filepath.Join(root, "home"))
		m = dotdir.NewManager()
	})

	Describe("Target", func() {
		It("creates a missing override directory", func() {
			want := filepath.Join(root, "state", "ragsql")

			Expect(m.Target(want)).To(Equal(want))
			Expect(want).To(BeADirectory())
		})

		It("prefers the override over a project directory", func() {
			Expect(os.Mkdir(filepath.Join(root, ".ragsql"), 0o755)).To(Succeed())
			workIn(root)

			override := filepath.Join(root, "elsewhere")
			Expect(m.Target(override)).To(Equal(override))
		})

		It("uses ./.ragsql when the project has one", func() {
			project := filepath.Join(root, ".ragsql")
			Expect(os.Mkdir(project, 0o755)).To(Succeed())
			workIn(root)

			Expect(m.Target("")).To(Equal(project))
		})

		It("ignores a .ragsql file that is not a directory", func() {
			Expect(os.WriteFile(filepath.Join(root, ".ragsql"), nil, 0o644)).To(Succeed())
			workIn(root)

			Expect(m.Target("")).To(Equal(filepath.Join(root, "home", ".ragsql")))
		})

		It("falls back to the home directory and creates it", func() {
			workIn(root)

			home := filepath.Join(root, "home", ".ragsql")
			Expect(m.Target("")).To(Equal(home))
			Expect(home).To(BeADirectory())
		})
	})

	Describe("File", func() {
		It("places relative names in the target", func() {
			Expect(m.File(root, "interactions.db")).To(Equal(filepath.Join(root, "interactions.db")))
		})

		It("leaves absolute names alone", func() {
			Expect(m.File(root, "/var/lib/ragsql/rag.hnsw")).To(Equal("/var/lib/ragsql/rag.hnsw"))
		})
	})
})
