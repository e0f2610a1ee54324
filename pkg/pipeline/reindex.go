package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	ragsqllog "github.com/papercomputeco/ragsql/pkg/logger"
	"github.com/papercomputeco/ragsql/pkg/storage"
	"github.com/papercomputeco/ragsql/pkg/vector"
)

// Stats compares the number of stored interactions with indexed vectors.
type Stats struct {
	StoreCount int `json:"store_count"`
	IndexCount int `json:"index_count"`
}

// InSync reports whether every stored interaction is indexed.
func (s Stats) InSync() bool {
	return s.StoreCount == s.IndexCount
}

// Reindex adds every stored interaction's embedding to dst in ascending id
// order and saves it. dst should be empty. Interactions without an embedding
// are skipped. It returns the number of vectors added.
func Reindex(ctx context.Context, store storage.Driver, dst vector.Driver, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = ragsqllog.Nop()
	}

	interactions, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing interactions: %w", err)
	}

	added := 0
	for _, i := range interactions {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		if len(i.Embedding) == 0 {
			logger.Warn("skipping interaction without embedding", "id", i.ID)
			continue
		}
		if err := dst.Add(ctx, i.ID, i.Embedding); err != nil {
			return added, fmt.Errorf("indexing interaction %d: %w", i.ID, err)
		}
		added++
	}

	if err := dst.Save(); err != nil {
		return added, fmt.Errorf("saving vector index: %w", err)
	}

	logger.Info("vector index rebuilt", "interactions", len(interactions), "indexed", added)
	return added, nil
}

// Reindex rebuilds dst from the store, then swaps it in and closes the
// previous driver.
func (o *Orchestrator) Reindex(ctx context.Context, dst vector.Driver) (int, error) {
	o.confirmMu.Lock()
	defer o.confirmMu.Unlock()

	n, err := Reindex(ctx, o.store, dst, o.logger)
	if err != nil {
		return n, err
	}

	o.vectorsMu.Lock()
	old := o.vectors
	o.vectors = dst
	o.vectorsMu.Unlock()

	if old != dst {
		if err := old.Close(); err != nil {
			o.logger.Warn("could not close previous vector driver", ragsqllog.Err(err))
		}
	}
	return n, nil
}

// Stats returns the store and index counts.
func (o *Orchestrator) Stats(ctx context.Context) (Stats, error) {
	storeCount, err := o.store.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("counting interactions: %w", err)
	}

	indexCount, err := o.Vectors().Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("counting vectors: %w", err)
	}

	return Stats{StoreCount: storeCount, IndexCount: indexCount}, nil
}

// Interaction returns a stored interaction, or nil when the id is unknown.
func (o *Orchestrator) Interaction(ctx context.Context, id int64) (*storage.Interaction, error) {
	return o.store.GetByID(ctx, id)
}
