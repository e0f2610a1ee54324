// Package stack builds the pipeline and its collaborators from the resolved
// configuration. Every command that answers or indexes questions goes
// through Build.
package stack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/papercomputeco/ragsql/pkg/config"
	"github.com/papercomputeco/ragsql/pkg/credentials"
	"github.com/papercomputeco/ragsql/pkg/datastore"
	"github.com/papercomputeco/ragsql/pkg/embeddings"
	embeddingutils "github.com/papercomputeco/ragsql/pkg/embeddings/utils"
	"github.com/papercomputeco/ragsql/pkg/eventstream"
	eventstreamutils "github.com/papercomputeco/ragsql/pkg/eventstream/utils"
	"github.com/papercomputeco/ragsql/pkg/llm"
	"github.com/papercomputeco/ragsql/pkg/llm/provider"
	ragsqllog "github.com/papercomputeco/ragsql/pkg/logger"
	"github.com/papercomputeco/ragsql/pkg/pipeline"
	"github.com/papercomputeco/ragsql/pkg/sandbox"
	"github.com/papercomputeco/ragsql/pkg/storage"
	"github.com/papercomputeco/ragsql/pkg/storage/inmemory"
	"github.com/papercomputeco/ragsql/pkg/storage/postgres"
	"github.com/papercomputeco/ragsql/pkg/storage/sqlite"
	"github.com/papercomputeco/ragsql/pkg/vector"
	"github.com/papercomputeco/ragsql/pkg/vector/hnsw"
	vectorutils "github.com/papercomputeco/ragsql/pkg/vector/utils"
)

// Options carries what Build needs beyond the configuration.
type Options struct {
	// ConfigDir overrides the .ragsql/ directory.
	ConfigDir string

	Logger   *slog.Logger
	Progress pipeline.Progress
}

// Stack is a fully wired pipeline. Close releases everything it opened.
type Stack struct {
	Config       *config.Config
	Store        storage.Driver
	Embedder     embeddings.Embedder
	Completer    llm.Completer
	Executor     datastore.Executor
	Sandbox      sandbox.Runner
	Publisher    eventstream.Publisher
	Orchestrator *pipeline.Orchestrator

	closers []func() error
}

// Build opens the stores, gateways and publisher described by cfg and
// assembles the orchestrator. On error everything opened so far is closed.
func Build(ctx context.Context, cfg *config.Config, opts Options) (_ *Stack, err error) {
	if opts.Logger == nil {
		opts.Logger = ragsqllog.Nop()
	}

	s := &Stack{Config: cfg}
	defer func() {
		if err != nil {
			_ = s.close()
		}
	}()

	creds, err := credentials.NewManager(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	if s.Store, err = OpenStore(ctx, cfg, opts.ConfigDir, opts.Logger); err != nil {
		return nil, err
	}
	s.closers = append(s.closers, s.Store.Close)

	vectors, err := OpenVectors(ctx, cfg, opts.ConfigDir, opts.Logger)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() error {
		// Once assembled, the orchestrator owns the driver.
		if s.Orchestrator == nil {
			return vectors.Close()
		}
		return nil
	})

	if s.Embedder, err = newEmbedder(cfg, creds); err != nil {
		return nil, err
	}
	s.closers = append(s.closers, s.Embedder.Close)

	if s.Completer, err = newCompleter(cfg, creds); err != nil {
		return nil, err
	}

	if s.Executor, err = openExecutor(ctx, cfg, opts.Logger); err != nil {
		return nil, err
	}
	s.closers = append(s.closers, s.Executor.Close)

	sandboxTimeout, err := config.Duration(cfg.Sandbox.Timeout, sandbox.DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("sandbox.timeout: %w", err)
	}
	s.Sandbox = sandbox.NewPython(sandbox.Config{
		Python:   cfg.Sandbox.Python,
		WorkDir:  cfg.Sandbox.WorkDir,
		Timeout:  sandboxTimeout,
		Progress: pipeline.ExportProgress(opts.Progress),
		Logger:   opts.Logger,
	})

	if s.Publisher, err = eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: cfg.EventStream.Provider,
		Brokers:      cfg.EventStream.Brokers,
		Topic:        cfg.EventStream.Topic,
		Logger:       opts.Logger,
	}); err != nil {
		return nil, fmt.Errorf("creating event publisher: %w", err)
	}
	s.closers = append(s.closers, s.Publisher.Close)

	schema := datastore.DefaultSchema
	if cfg.DataStore.SchemaPath != "" {
		if schema, err = datastore.LoadSchema(cfg.DataStore.SchemaPath); err != nil {
			return nil, err
		}
	}

	embeddingTimeout, err := config.Duration(cfg.Embedding.Timeout, 0)
	if err != nil {
		return nil, fmt.Errorf("embedding.timeout: %w", err)
	}
	completionTimeout, err := config.Duration(cfg.LLM.Timeout, 0)
	if err != nil {
		return nil, fmt.Errorf("llm.timeout: %w", err)
	}

	s.Orchestrator, err = pipeline.New(pipeline.Config{
		Embedder:          s.Embedder,
		Vectors:           vectors,
		Store:             s.Store,
		Completer:         s.Completer,
		Executor:          s.Executor,
		Sandbox:           s.Sandbox,
		Publisher:         s.Publisher,
		VectorProvider:    cfg.VectorStore.Provider,
		Progress:          opts.Progress,
		Logger:            opts.Logger,
		Threshold:         float32(cfg.Pipeline.SimilarityThreshold()),
		TopK:              int(cfg.Pipeline.TopK),
		Schema:            schema,
		EmbeddingTimeout:  embeddingTimeout,
		CompletionTimeout: completionTimeout,
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Close flushes the vector index and closes every collaborator.
func (s *Stack) Close() error {
	return s.close()
}

func (s *Stack) close() error {
	var errs []error

	if s.Orchestrator != nil {
		vectors := s.Orchestrator.Vectors()
		if err := vectors.Save(); err != nil {
			errs = append(errs, fmt.Errorf("saving vector index: %w", err))
		}
		if err := vectors.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil

	return errors.Join(errs...)
}

// OpenStore opens the configured interaction store.
func OpenStore(ctx context.Context, cfg *config.Config, configDir string, logger *slog.Logger) (storage.Driver, error) {
	switch cfg.Storage.Provider {
	case "inmemory":
		logger.Info("using in-memory interaction store")
		return inmemory.NewDriver(), nil

	case "postgres":
		if cfg.Storage.PostgresDSN == "" {
			return nil, errors.New("storage.postgres_dsn is required for the postgres store")
		}
		driver, err := postgres.NewDriver(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL store: %w", err)
		}
		logger.Info("using PostgreSQL interaction store")
		return driver, nil

	case "sqlite", "":
		path, err := ResolvePath(configDir, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		driver, err := sqlite.NewSQLiteDriver(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite store: %w", err)
		}
		logger.Info("using SQLite interaction store", "path", path)
		return driver, nil

	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Storage.Provider)
	}
}

// OpenVectors opens the configured vector driver. A persisted hnsw index is
// loaded from its base path.
func OpenVectors(ctx context.Context, cfg *config.Config, configDir string, logger *slog.Logger) (vector.Driver, error) {
	target, err := vectorTarget(cfg, configDir)
	if err != nil {
		return nil, err
	}

	var apiKey string
	if cfg.VectorStore.Provider == vectorutils.ProviderQdrant {
		creds, err := credentials.NewManager(configDir)
		if err != nil {
			return nil, fmt.Errorf("loading credentials: %w", err)
		}
		if apiKey, err = creds.ResolveKey(vectorutils.ProviderQdrant, ""); err != nil {
			return nil, fmt.Errorf("resolving qdrant API key: %w", err)
		}
	}

	driver, err := vectorutils.NewVectorDriver(ctx, &vectorutils.NewVectorDriverOpts{
		ProviderType:   cfg.VectorStore.Provider,
		Target:         target,
		Dimensions:     cfg.Embedding.Dimensions,
		M:              cfg.VectorStore.M,
		EfConstruction: cfg.VectorStore.EfConstruction,
		EfSearch:       cfg.VectorStore.EfSearch,
		APIKey:         apiKey,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}
	return driver, nil
}

// ResetVectors discards the persisted vectors of a local provider so the next
// OpenVectors starts empty. Qdrant points are upserted and need no reset.
func ResetVectors(cfg *config.Config, configDir string) error {
	target, err := vectorTarget(cfg, configDir)
	if err != nil {
		return err
	}

	switch cfg.VectorStore.Provider {
	case vectorutils.ProviderHNSW, "":
		return hnsw.Remove(target)
	case vectorutils.ProviderSQLite:
		for _, p := range []string{target, target + "-wal", target + "-shm"} {
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("removing %s: %w", p, err)
			}
		}
		return nil
	default:
		return nil
	}
}

func vectorTarget(cfg *config.Config, configDir string) (string, error) {
	if cfg.VectorStore.Provider == vectorutils.ProviderQdrant {
		return cfg.VectorStore.Target, nil
	}
	return ResolvePath(configDir, cfg.VectorStore.Target)
}

func newEmbedder(cfg *config.Config, creds *credentials.Manager) (embeddings.Embedder, error) {
	apiKey, err := creds.ResolveKey(cfg.Embedding.Provider, "")
	if err != nil {
		return nil, fmt.Errorf("resolving embedding API key: %w", err)
	}

	timeout, err := config.Duration(cfg.Embedding.Timeout, 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("embedding.timeout: %w", err)
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		APIKey:       apiKey,
		Dimensions:   cfg.Embedding.Dimensions,
		Timeout:      timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}

func newCompleter(cfg *config.Config, creds *credentials.Manager) (llm.Completer, error) {
	apiKey, err := creds.ResolveKey(cfg.LLM.Provider, "")
	if err != nil {
		return nil, fmt.Errorf("resolving LLM API key: %w", err)
	}

	timeout, err := config.Duration(cfg.LLM.Timeout, 90*time.Second)
	if err != nil {
		return nil, fmt.Errorf("llm.timeout: %w", err)
	}

	completer, err := provider.New(&provider.NewCompleterOpts{
		ProviderType: cfg.LLM.Provider,
		TargetURL:    cfg.LLM.Target,
		Model:        cfg.LLM.Model,
		APIKey:       apiKey,
		Timeout:      timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating completer: %w", err)
	}
	return completer, nil
}

func openExecutor(ctx context.Context, cfg *config.Config, logger *slog.Logger) (datastore.Executor, error) {
	if cfg.DataStore.DSN == "" {
		return nil, errors.New("datastore.dsn is required: set it with 'ragsql config set datastore.dsn <dsn>' or RAGSQL_DATASTORE_DSN")
	}

	timeout, err := config.Duration(cfg.DataStore.Timeout, 0)
	if err != nil {
		return nil, fmt.Errorf("datastore.timeout: %w", err)
	}

	executor, err := datastore.Open(ctx, datastore.Config{
		Driver:  cfg.DataStore.Driver,
		DSN:     cfg.DataStore.DSN,
		Timeout: timeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	return executor, nil
}
