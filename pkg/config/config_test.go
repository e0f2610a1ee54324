package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragsql/pkg/config"
)

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads all config fields", func() {
			data := `version = 0

[storage]
provider = "postgres"
postgres_dsn = "postgres://localhost/ragsql"

[datastore]
driver = "sqlite"
dsn = "/tmp/consumi.db"
schema_path = "/tmp/schema.txt"

[vector_store]
provider = "qdrant"
target = "localhost:6334"
ef_search = 120

[embedding]
provider = "ollama"
target = "http://localhost:11434"
model = "nomic-embed-text"
dimensions = 768

[llm]
provider = "anthropic"
model = "claude-sonnet-4-5"

[sandbox]
python = "/usr/bin/python3"
timeout = "10s"

[pipeline]
threshold = 0.85
top_k = 5

[api]
listen = ":9091"

[eventstream]
provider = "kafka"
brokers = "localhost:9092"
`
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Storage.Provider).To(Equal("postgres"))
			Expect(cfg.Storage.PostgresDSN).To(Equal("postgres://localhost/ragsql"))
			Expect(cfg.DataStore.Driver).To(Equal("sqlite"))
			Expect(cfg.DataStore.DSN).To(Equal("/tmp/consumi.db"))
			Expect(cfg.DataStore.SchemaPath).To(Equal("/tmp/schema.txt"))
			Expect(cfg.VectorStore.Provider).To(Equal("qdrant"))
			Expect(cfg.VectorStore.Target).To(Equal("localhost:6334"))
			Expect(cfg.VectorStore.EfSearch).To(Equal(uint(120)))
			Expect(cfg.Embedding.Provider).To(Equal("ollama"))
			Expect(cfg.Embedding.Dimensions).To(Equal(uint(768)))
			Expect(cfg.LLM.Provider).To(Equal("anthropic"))
			Expect(cfg.LLM.Model).To(Equal("claude-sonnet-4-5"))
			Expect(cfg.Sandbox.Python).To(Equal("/usr/bin/python3"))
			Expect(cfg.Sandbox.Timeout).To(Equal("10s"))
			Expect(cfg.Pipeline.SimilarityThreshold()).To(Equal(0.85))
			Expect(cfg.Pipeline.TopK).To(Equal(uint(5)))
			Expect(cfg.API.Listen).To(Equal(":9091"))
			Expect(cfg.EventStream.Provider).To(Equal("kafka"))
			Expect(cfg.EventStream.Brokers).To(Equal("localhost:9092"))
		})

		It("fills in defaults for unset fields in a partial config", func() {
			data := `[llm]
provider = "ollama"
`
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			defaults := config.NewDefaultConfig()
			Expect(cfg.LLM.Provider).To(Equal("ollama"))
			Expect(cfg.LLM.Model).To(Equal(defaults.LLM.Model))
			Expect(cfg.VectorStore.M).To(Equal(uint(16)))
			Expect(cfg.VectorStore.EfConstruction).To(Equal(uint(200)))
			Expect(cfg.VectorStore.EfSearch).To(Equal(uint(80)))
			Expect(cfg.Embedding.Dimensions).To(Equal(uint(1536)))
			Expect(cfg.Pipeline.SimilarityThreshold()).To(Equal(0.70))
			Expect(cfg.Pipeline.TopK).To(Equal(uint(3)))
		})

		It("returns error for malformed TOML", func() {
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not valid toml [[["), 0o600)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(cfg).To(BeNil())
		})

		It("returns error for unsupported config version", func() {
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("version = 99\n"), 0o600)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version")))
			Expect(cfg).To(BeNil())
		})
	})

	Describe("SaveConfig", func() {
		It("returns error for nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).To(MatchError("cannot save nil config"))
		})

		It("round-trips a full config", func() {
			original := config.NewDefaultConfig()
			original.Storage.Provider = "inmemory"
			original.LLM.Provider = "anthropic"
			threshold := 0.9
			original.Pipeline.Threshold = &threshold
			original.EventStream.Brokers = "a:9092,b:9092"

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(original)).To(Succeed())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})
	})

	Describe("SetConfigValue", func() {
		It("sets a string config key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("llm.model", "gpt-4.1")).To(Succeed())

			val, err := c.GetConfigValue("llm.model")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("gpt-4.1"))
		})

		It("sets a uint config key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("vector_store.ef_search", "128")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.VectorStore.EfSearch).To(Equal(uint(128)))
		})

		It("sets the similarity threshold", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("pipeline.threshold", "0.8")).To(Succeed())

			val, err := c.GetConfigValue("pipeline.threshold")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("0.8"))
		})

		It("keeps an explicit zero threshold across a reload", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("pipeline.threshold", "0")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Pipeline.Threshold).NotTo(BeNil())
			Expect(cfg.Pipeline.SimilarityThreshold()).To(BeZero())

			val, err := c.GetConfigValue("pipeline.threshold")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("0"))
		})

		It("rejects a threshold outside [0, 1]", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SetConfigValue("pipeline.threshold", "1.5")).To(HaveOccurred())
		})

		It("returns error for unknown key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SetConfigValue("proxy.upstream", "x")).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("returns error for invalid uint value", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SetConfigValue("embedding.dimensions", "abc")).To(MatchError(ContainSubstring("invalid value for embedding.dimensions")))
		})

		It("preserves existing values when setting a new key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("llm.provider", "ollama")).To(Succeed())
			Expect(c.SetConfigValue("api.listen", ":7000")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.LLM.Provider).To(Equal("ollama"))
			Expect(cfg.API.Listen).To(Equal(":7000"))
		})
	})

	Describe("GetConfigValue", func() {
		It("returns default value when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			val, err := c.GetConfigValue("vector_store.provider")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("hnsw"))
		})

		It("returns empty string for key with no default", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			val, err := c.GetConfigValue("datastore.dsn")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(BeEmpty())
		})
	})
})

var _ = Describe("ValidConfigKeys", func() {
	It("lists every key exactly once in section order", func() {
		keys := config.ValidConfigKeys()
		Expect(keys[0]).To(Equal("storage.provider"))
		Expect(keys).To(ContainElements("pipeline.threshold", "vector_store.ef_search", "eventstream.topic"))

		seen := map[string]bool{}
		for _, k := range keys {
			Expect(seen[k]).To(BeFalse(), k)
			seen[k] = true
			Expect(config.IsValidConfigKey(k)).To(BeTrue())
		}
	})

	It("rejects unknown keys", func() {
		Expect(config.IsValidConfigKey("memory.enabled")).To(BeFalse())
		Expect(config.IsValidConfigKey("threshold")).To(BeFalse())
	})
})

var _ = Describe("PresetConfig", func() {
	It("returns the ollama preset with local embeddings", func() {
		cfg, err := config.PresetConfig("Ollama")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.LLM.Provider).To(Equal("ollama"))
		Expect(cfg.Embedding.Provider).To(Equal("ollama"))
		Expect(cfg.Embedding.Dimensions).To(Equal(uint(768)))
	})

	It("keeps openai embeddings for the anthropic preset", func() {
		cfg, err := config.PresetConfig("anthropic")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.LLM.Provider).To(Equal("anthropic"))
		Expect(cfg.Embedding.Provider).To(Equal("openai"))
	})

	It("returns error for unknown preset", func() {
		_, err := config.PresetConfig("gemini")
		Expect(err).To(MatchError(ContainSubstring("unknown preset")))
		Expect(config.ValidPresetNames()).To(ConsistOf("openai", "anthropic", "ollama"))
	})
})

var _ = Describe("Duration", func() {
	It("falls back on empty input", func() {
		d, err := config.Duration("", 90*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(Equal(90 * time.Second))
	})

	It("parses go durations", func() {
		d, err := config.Duration("1m30s", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(Equal(90 * time.Second))
	})

	It("rejects non-positive and malformed values", func() {
		_, err := config.Duration("-1s", 0)
		Expect(err).To(HaveOccurred())
		_, err = config.Duration("soon", 0)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "viper-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns viper with defaults when no config file exists", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("vector_store.provider")).To(Equal("hnsw"))
		Expect(v.GetUint("embedding.dimensions")).To(Equal(uint(1536)))
		Expect(v.GetFloat64("pipeline.threshold")).To(Equal(0.7))
	})

	It("env vars take precedence over config file values", func() {
		data := `[llm]
provider = "anthropic"
`
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

		GinkgoT().Setenv("RAGSQL_LLM_PROVIDER", "ollama")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("llm.provider")).To(Equal("ollama"))
	})

	It("materializes a typed Config with FromViper", func() {
		data := `[pipeline]
threshold = 0.9
top_k = 7
`
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Pipeline.SimilarityThreshold()).To(Equal(0.9))
		Expect(cfg.Pipeline.TopK).To(Equal(uint(7)))
		Expect(cfg.LLM.Provider).To(Equal("openai"))
	})

	It("honors a zero threshold from the environment", func() {
		GinkgoT().Setenv("RAGSQL_PIPELINE_THRESHOLD", "0")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Pipeline.SimilarityThreshold()).To(BeZero())
	})
})

var _ = Describe("BindFlags", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "bindflag-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("binds cobra flags to viper keys via registry", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		config.AddPipelineFlags(cmd)

		Expect(cmd.Flags().Set("llm-provider", "ollama")).To(Succeed())
		Expect(cmd.Flags().Set("threshold", "0.95")).To(Succeed())

		config.BindRegisteredFlags(v, cmd, config.PipelineFlags, config.PipelineFlagKeys())

		Expect(v.GetString("llm.provider")).To(Equal("ollama"))
		Expect(v.GetFloat64("pipeline.threshold")).To(Equal(0.95))
	})

	It("falls through to config when flag not set", func() {
		data := `[llm]
model = "gpt-4.1-mini"
`
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		config.AddPipelineFlags(cmd)
		config.BindRegisteredFlags(v, cmd, config.PipelineFlags, config.PipelineFlagKeys())

		Expect(v.GetString("llm.model")).To(Equal("gpt-4.1-mini"))
	})

	It("skips bindings for nonexistent registry keys", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		config.BindRegisteredFlags(v, cmd, config.FlagSet{}, []string{"nonexistent"})

		Expect(v.GetString("api.listen")).To(Equal(config.NewDefaultConfig().API.Listen))
	})

	It("AddStringFlag pulls name, shorthand, and description from FlagSet", func() {
		cmd := &cobra.Command{Use: "test"}
		var provider string
		config.AddStringFlag(cmd, config.PipelineFlags, config.FlagLLMProvider, &provider)

		f := cmd.Flags().Lookup("llm-provider")
		Expect(f).NotTo(BeNil())
		Expect(f.Shorthand).To(Equal("p"))
		Expect(f.DefValue).To(Equal("openai"))
	})

	It("AddUintFlag works for embedding-dimensions", func() {
		cmd := &cobra.Command{Use: "test"}
		var dims uint
		config.AddUintFlag(cmd, config.PipelineFlags, config.FlagEmbeddingDims, &dims)

		f := cmd.Flags().Lookup("embedding-dimensions")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal("1536"))
	})
})
