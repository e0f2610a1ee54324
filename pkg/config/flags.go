package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g. --llm-provider
// on both "ragsql ask" and "ragsql serve").
type Flag struct {
	// Name is the long flag name (e.g. "llm-provider").
	Name string

	// Shorthand is the one-letter short flag (e.g. "l"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "llm.provider").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddUintFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagAPIListen       = "api-listen"
	FlagStorageProvider = "storage-provider"
	FlagSQLite          = "sqlite"
	FlagPostgresDSN     = "postgres-dsn"
	FlagDataStoreDriver = "datastore-driver"
	FlagDataStoreDSN    = "datastore-dsn"
	FlagSchemaPath      = "schema"
	FlagVectorStoreProv = "vector-store-provider"
	FlagVectorStoreTgt  = "vector-store-target"
	FlagEmbeddingProv   = "embedding-provider"
	FlagEmbeddingTgt    = "embedding-target"
	FlagEmbeddingModel  = "embedding-model"
	FlagEmbeddingDims   = "embedding-dimensions"
	FlagLLMProvider     = "llm-provider"
	FlagLLMTarget       = "llm-target"
	FlagLLMModel        = "llm-model"
	FlagPython          = "python"
	FlagThreshold       = "threshold"
	FlagTopK            = "top-k"
	FlagEventProvider   = "eventstream-provider"
	FlagEventBrokers    = "eventstream-brokers"
	FlagEventTopic      = "eventstream-topic"
)

// PipelineFlags is the flag registry shared by every command that builds a
// pipeline (ask, serve, index).
var PipelineFlags = FlagSet{
	FlagStorageProvider: {Name: "storage-provider", ViperKey: "storage.provider", Description: "Interaction store provider (sqlite, postgres, inmemory)"},
	FlagSQLite:          {Name: "sqlite", Shorthand: "s", ViperKey: "storage.sqlite_path", Description: "Path to the SQLite interaction store"},
	FlagPostgresDSN:     {Name: "postgres-dsn", ViperKey: "storage.postgres_dsn", Description: "PostgreSQL DSN for the interaction store"},
	FlagDataStoreDriver: {Name: "datastore-driver", ViperKey: "datastore.driver", Description: "Data store driver (postgres, sqlite)"},
	FlagDataStoreDSN:    {Name: "datastore-dsn", ViperKey: "datastore.dsn", Description: "DSN of the database queries run against"},
	FlagSchemaPath:      {Name: "schema", ViperKey: "datastore.schema_path", Description: "Path to a file describing the table schema"},
	FlagVectorStoreProv: {Name: "vector-store-provider", ViperKey: "vector_store.provider", Description: "Vector store provider (hnsw, sqlite, qdrant)"},
	FlagVectorStoreTgt:  {Name: "vector-store-target", ViperKey: "vector_store.target", Description: "Index base path, sqlite file or qdrant address"},
	FlagEmbeddingProv:   {Name: "embedding-provider", ViperKey: "embedding.provider", Description: "Embedding provider (openai, ollama)"},
	FlagEmbeddingTgt:    {Name: "embedding-target", ViperKey: "embedding.target", Description: "Embedding provider URL"},
	FlagEmbeddingModel:  {Name: "embedding-model", ViperKey: "embedding.model", Description: "Embedding model name"},
	FlagEmbeddingDims:   {Name: "embedding-dimensions", ViperKey: "embedding.dimensions", Description: "Embedding dimensionality"},
	FlagLLMProvider:     {Name: "llm-provider", Shorthand: "p", ViperKey: "llm.provider", Description: "LLM provider (openai, anthropic, ollama)"},
	FlagLLMTarget:       {Name: "llm-target", ViperKey: "llm.target", Description: "LLM provider URL"},
	FlagLLMModel:        {Name: "llm-model", Shorthand: "m", ViperKey: "llm.model", Description: "LLM model name"},
	FlagPython:          {Name: "python", ViperKey: "sandbox.python", Description: "Python interpreter used for analysis code"},
	FlagThreshold:       {Name: "threshold", ViperKey: "pipeline.threshold", Description: "Similarity above which a stored interaction is reused"},
	FlagTopK:            {Name: "top-k", ViperKey: "pipeline.top_k", Description: "Neighbors fetched from the vector index"},
	FlagEventProvider:   {Name: "eventstream-provider", ViperKey: "eventstream.provider", Description: "Confirmation event publisher (nop, kafka)"},
	FlagEventBrokers:    {Name: "eventstream-brokers", ViperKey: "eventstream.brokers", Description: "Comma separated kafka brokers"},
	FlagEventTopic:      {Name: "eventstream-topic", ViperKey: "eventstream.topic", Description: "Kafka topic for confirmation events"},
}

// ServeFlags holds the flags only the serve command registers.
var ServeFlags = FlagSet{
	FlagAPIListen: {Name: "api-listen", Shorthand: "a", ViperKey: "api.listen", Description: "Address for the API server to listen on"},
}

// Keys returns the registry keys of fs.
func (fs FlagSet) Keys() []string {
	keys := make([]string, 0, len(fs))
	for k := range fs {
		keys = append(keys, k)
	}
	return keys
}

// PipelineFlagKeys returns the registry keys of PipelineFlags.
func PipelineFlagKeys() []string {
	return PipelineFlags.Keys()
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *uint) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddFloat64Flag registers a float64 flag on cmd from the given FlagSet.
func AddFloat64Flag(cmd *cobra.Command, fs FlagSet, registryKey string, target *float64) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultFloat64(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().Float64VarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().Float64Var(target, def.Name, defaultVal, def.Description)
	}
}

// AddPipelineFlags registers every flag in PipelineFlags on cmd. Values are
// read back through viper once BindRegisteredFlags has run.
func AddPipelineFlags(cmd *cobra.Command) {
	for key := range PipelineFlags {
		switch key {
		case FlagEmbeddingDims, FlagTopK:
			AddUintFlag(cmd, PipelineFlags, key, new(uint))
		case FlagThreshold:
			AddFloat64Flag(cmd, PipelineFlags, key, new(float64))
		default:
			AddStringFlag(cmd, PipelineFlags, key, new(string))
		}
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultUint returns the default uint value for a viper key from NewDefaultConfig.
func defaultUint(viperKey string) uint {
	v := viper.New()
	setViperDefaults(v)
	return v.GetUint(viperKey)
}

// defaultFloat64 returns the default float64 value for a viper key from NewDefaultConfig.
func defaultFloat64(viperKey string) float64 {
	v := viper.New()
	setViperDefaults(v)
	return v.GetFloat64(viperKey)
}
