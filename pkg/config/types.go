package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent ragsql configuration stored as config.toml
// in the .ragsql/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	DataStore   DataStoreConfig   `toml:"datastore"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	LLM         LLMConfig         `toml:"llm"`
	Sandbox     SandboxConfig     `toml:"sandbox"`
	Pipeline    PipelineConfig    `toml:"pipeline"`
	API         APIConfig         `toml:"api"`
	EventStream EventStreamConfig `toml:"eventstream"`
}

// StorageConfig holds the interaction store settings.
type StorageConfig struct {
	Provider    string `toml:"provider,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// DataStoreConfig points at the database generated queries run against.
type DataStoreConfig struct {
	Driver     string `toml:"driver,omitempty"`
	DSN        string `toml:"dsn,omitempty"`
	SchemaPath string `toml:"schema_path,omitempty"`
	Timeout    string `toml:"timeout,omitempty"`
}

// VectorStoreConfig holds vector store settings. For the hnsw provider the
// target is the base path of the persisted index files.
type VectorStoreConfig struct {
	Provider       string `toml:"provider,omitempty"`
	Target         string `toml:"target,omitempty"`
	M              uint   `toml:"m,omitempty"`
	EfConstruction uint   `toml:"ef_construction,omitempty"`
	EfSearch       uint   `toml:"ef_search,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
	Timeout    string `toml:"timeout,omitempty"`
}

// LLMConfig holds completion provider settings.
type LLMConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Model    string `toml:"model,omitempty"`
	Timeout  string `toml:"timeout,omitempty"`
}

// SandboxConfig holds the python analysis sandbox settings.
type SandboxConfig struct {
	Python  string `toml:"python,omitempty"`
	WorkDir string `toml:"work_dir,omitempty"`
	Timeout string `toml:"timeout,omitempty"`
}

// PipelineConfig holds retrieval parameters. Threshold is a pointer so an
// explicit 0 survives a save and reload.
type PipelineConfig struct {
	Threshold *float64 `toml:"threshold,omitempty"`
	TopK      uint     `toml:"top_k,omitempty"`
}

// SimilarityThreshold returns the configured threshold, or the default when
// none is set.
func (p PipelineConfig) SimilarityThreshold() float64 {
	if p.Threshold == nil {
		return defaultThreshold
	}
	return *p.Threshold
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// EventStreamConfig holds confirmation event publisher settings.
type EventStreamConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func uintKey(name string, field func(c *Config) *uint) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(*field(c)), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = uint(n)
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.provider":     stringKey(func(c *Config) *string { return &c.Storage.Provider }),
	"storage.sqlite_path":  stringKey(func(c *Config) *string { return &c.Storage.SQLitePath }),
	"storage.postgres_dsn": stringKey(func(c *Config) *string { return &c.Storage.PostgresDSN }),

	"datastore.driver":      stringKey(func(c *Config) *string { return &c.DataStore.Driver }),
	"datastore.dsn":         stringKey(func(c *Config) *string { return &c.DataStore.DSN }),
	"datastore.schema_path": stringKey(func(c *Config) *string { return &c.DataStore.SchemaPath }),
	"datastore.timeout":     stringKey(func(c *Config) *string { return &c.DataStore.Timeout }),

	"vector_store.provider":        stringKey(func(c *Config) *string { return &c.VectorStore.Provider }),
	"vector_store.target":          stringKey(func(c *Config) *string { return &c.VectorStore.Target }),
	"vector_store.m":               uintKey("vector_store.m", func(c *Config) *uint { return &c.VectorStore.M }),
	"vector_store.ef_construction": uintKey("vector_store.ef_construction", func(c *Config) *uint { return &c.VectorStore.EfConstruction }),
	"vector_store.ef_search":       uintKey("vector_store.ef_search", func(c *Config) *uint { return &c.VectorStore.EfSearch }),

	"embedding.provider":   stringKey(func(c *Config) *string { return &c.Embedding.Provider }),
	"embedding.target":     stringKey(func(c *Config) *string { return &c.Embedding.Target }),
	"embedding.model":      stringKey(func(c *Config) *string { return &c.Embedding.Model }),
	"embedding.dimensions": uintKey("embedding.dimensions", func(c *Config) *uint { return &c.Embedding.Dimensions }),
	"embedding.timeout":    stringKey(func(c *Config) *string { return &c.Embedding.Timeout }),

	"llm.provider": stringKey(func(c *Config) *string { return &c.LLM.Provider }),
	"llm.target":   stringKey(func(c *Config) *string { return &c.LLM.Target }),
	"llm.model":    stringKey(func(c *Config) *string { return &c.LLM.Model }),
	"llm.timeout":  stringKey(func(c *Config) *string { return &c.LLM.Timeout }),

	"sandbox.python":   stringKey(func(c *Config) *string { return &c.Sandbox.Python }),
	"sandbox.work_dir": stringKey(func(c *Config) *string { return &c.Sandbox.WorkDir }),
	"sandbox.timeout":  stringKey(func(c *Config) *string { return &c.Sandbox.Timeout }),

	"pipeline.threshold": {
		get: func(c *Config) string {
			if c.Pipeline.Threshold == nil {
				return ""
			}
			return strconv.FormatFloat(*c.Pipeline.Threshold, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for pipeline.threshold: %w", err)
			}
			if f < 0 || f > 1 {
				return fmt.Errorf("invalid value for pipeline.threshold: %v is outside [0, 1]", f)
			}
			c.Pipeline.Threshold = &f
			return nil
		},
	},
	"pipeline.top_k": uintKey("pipeline.top_k", func(c *Config) *uint { return &c.Pipeline.TopK }),

	"api.listen": stringKey(func(c *Config) *string { return &c.API.Listen }),

	"eventstream.provider": stringKey(func(c *Config) *string { return &c.EventStream.Provider }),
	"eventstream.brokers":  stringKey(func(c *Config) *string { return &c.EventStream.Brokers }),
	"eventstream.topic":    stringKey(func(c *Config) *string { return &c.EventStream.Topic }),
}
