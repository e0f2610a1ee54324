package initcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	initcmder "github.com/papercomputeco/ragsql/cmd/ragsql/init"
	"github.com/papercomputeco/ragsql/pkg/config"
)

var _ = Describe("NewInitCmd", func() {
	It("creates a command with the correct use string", func() {
		Expect(initcmder.NewInitCmd().Use).To(Equal("init"))
	})

	It("rejects any arguments", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})

	It("has a --preset flag", func() {
		f := initcmder.NewInitCmd().Flags().Lookup("preset")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal(""))
	})
})

var _ = Describe("Init command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	run := func(args ...string) error {
		cmd := initcmder.NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	readConfig := func() *config.Config {
		data, err := os.ReadFile(filepath.Join(tmpDir, ".ragsql", "config.toml"))
		Expect(err).NotTo(HaveOccurred())
		cfg := &config.Config{}
		Expect(toml.Unmarshal(data, cfg)).To(Succeed())
		return cfg
	}

	BeforeEach(func() {
		var err error
		tmpDir = GinkgoT().TempDir()
		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(tmpDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
	})

	It("creates a .ragsql directory with a default config", func() {
		Expect(run()).To(Succeed())

		info, err := os.Stat(filepath.Join(tmpDir, ".ragsql"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())

		cfg := readConfig()
		Expect(cfg.LLM.Provider).To(Equal(config.NewDefaultConfig().LLM.Provider))
	})

	It("is idempotent", func() {
		Expect(run()).To(Succeed())
		Expect(run()).To(Succeed())
	})

	It("writes the ollama preset", func() {
		Expect(run("--preset", "ollama")).To(Succeed())

		cfg := readConfig()
		Expect(cfg.LLM.Provider).To(Equal("ollama"))
		Expect(cfg.Embedding.Provider).To(Equal("ollama"))
		Expect(cfg.Embedding.Dimensions).To(Equal(uint(768)))
	})

	It("rejects an unknown preset", func() {
		Expect(run("--preset", "nope")).To(MatchError(ContainSubstring("unknown preset")))
		Expect(filepath.Join(tmpDir, ".ragsql")).NotTo(BeADirectory())
	})
})
