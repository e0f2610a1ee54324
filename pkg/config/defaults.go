package config

const (
	defaultStorageProvider = "sqlite"
	defaultSQLitePath      = "interactions.db"

	defaultDataStoreDriver  = "postgres"
	defaultDataStoreTimeout = "120s"

	defaultVectorProvider       = "hnsw"
	defaultVectorTarget         = "rag"
	defaultVectorM              = 16
	defaultVectorEfConstruction = 200
	defaultVectorEfSearch       = 80

	defaultEmbeddingProvider   = "openai"
	defaultEmbeddingTarget     = "https://api.openai.com"
	defaultEmbeddingModel      = "text-embedding-3-small"
	defaultEmbeddingDimensions = 1536
	defaultEmbeddingTimeout    = "30s"

	defaultLLMProvider = "openai"
	defaultLLMTarget   = "https://api.openai.com"
	defaultLLMModel    = "gpt-4o"
	defaultLLMTimeout  = "90s"

	defaultSandboxPython  = "python3"
	defaultSandboxTimeout = "60s"

	defaultThreshold = 0.70
	defaultTopK      = 3

	defaultAPIListen = ":8081"

	defaultEventStreamProvider = "nop"
	defaultEventStreamTopic    = "ragsql.interactions"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	threshold := defaultThreshold
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Provider:   defaultStorageProvider,
			SQLitePath: defaultSQLitePath,
		},
		DataStore: DataStoreConfig{
			Driver:  defaultDataStoreDriver,
			Timeout: defaultDataStoreTimeout,
		},
		VectorStore: VectorStoreConfig{
			Provider:       defaultVectorProvider,
			Target:         defaultVectorTarget,
			M:              defaultVectorM,
			EfConstruction: defaultVectorEfConstruction,
			EfSearch:       defaultVectorEfSearch,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
			Timeout:    defaultEmbeddingTimeout,
		},
		LLM: LLMConfig{
			Provider: defaultLLMProvider,
			Target:   defaultLLMTarget,
			Model:    defaultLLMModel,
			Timeout:  defaultLLMTimeout,
		},
		Sandbox: SandboxConfig{
			Python:  defaultSandboxPython,
			Timeout: defaultSandboxTimeout,
		},
		Pipeline: PipelineConfig{
			Threshold: &threshold,
			TopK:      defaultTopK,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Topic:    defaultEventStreamTopic,
		},
	}
}
