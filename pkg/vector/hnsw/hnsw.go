// Package hnsw implements an incremental Hierarchical Navigable Small World
// graph over unit vectors, with cosine similarity search and file
// persistence.
package hnsw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"sync"

	ragsqllog "github.com/papercomputeco/ragsql/pkg/logger"
	"github.com/papercomputeco/ragsql/pkg/vector"
)

const (
	DefaultDimensions     = 1536
	DefaultM              = 16
	DefaultEfConstruction = 200
	DefaultEfSearch       = 80
)

// Config holds configuration for an Index.
type Config struct {
	// BasePath is the path prefix of the persisted artifacts
	// (<base>.hnsw, <base>.vec, <base>.ids). Empty keeps the index in memory.
	BasePath string

	Dimensions     int
	M              int
	EfConstruction int
	EfSearch       int

	// Seed drives level assignment. Zero uses a fixed default so graphs
	// are reproducible across rebuilds.
	Seed int64
}

func (c *Config) applyDefaults() {
	if c.Dimensions <= 0 {
		c.Dimensions = DefaultDimensions
	}
	if c.M <= 1 {
		c.M = DefaultM
	}
	if c.EfConstruction <= 0 {
		c.EfConstruction = DefaultEfConstruction
	}
	if c.EfSearch <= 0 {
		c.EfSearch = DefaultEfSearch
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
}

// Index is an HNSW graph. A single writer mutates it under the write lock;
// any number of readers search under the read lock.
type Index struct {
	mu sync.RWMutex

	cfg       Config
	levelMult float64
	rng       *rand.Rand

	vectors   [][]float32
	ids       []int64
	positions map[int64]int32
	levels    []int

	// links[pos][layer] holds neighbor positions of pos on that layer.
	links [][][]int32

	entry    int32
	maxLevel int

	logger *slog.Logger
}

var _ vector.Driver = (*Index)(nil)

// New creates an index. When the vector and id artifacts exist at
// cfg.BasePath the index is loaded from them.
func New(cfg Config, logger *slog.Logger) (*Index, error) {
	cfg.applyDefaults()
	if logger == nil {
		logger = ragsqllog.Nop()
	}

	idx := newIndex(cfg, logger)

	if cfg.BasePath == "" {
		return idx, nil
	}

	vecExists, err := exists(cfg.BasePath + vecExt)
	if err != nil {
		return nil, err
	}
	idsExists, err := exists(cfg.BasePath + idsExt)
	if err != nil {
		return nil, err
	}

	switch {
	case vecExists && idsExists:
		if err := idx.Load(); err != nil {
			return nil, err
		}
	case vecExists != idsExists:
		return nil, fmt.Errorf("%w: only one of %s%s and %s%s exists",
			ErrCorrupt, cfg.BasePath, vecExt, cfg.BasePath, idsExt)
	default:
		logger.Debug("starting empty hnsw index", "base_path", cfg.BasePath)
	}

	return idx, nil
}

func newIndex(cfg Config, logger *slog.Logger) *Index {
	return &Index{
		cfg:       cfg,
		levelMult: 1 / math.Log(float64(cfg.M)),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		positions: make(map[int64]int32),
		entry:     -1,
		logger:    logger,
	}
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", path, err)
}

// Add normalizes vec and links it into the graph under id.
func (x *Index) Add(_ context.Context, id int64, vec []float32) error {
	if len(vec) != x.cfg.Dimensions {
		return fmt.Errorf("%w: got %d, want %d", vector.ErrDimensionMismatch, len(vec), x.cfg.Dimensions)
	}
	if id < math.MinInt32 || id > math.MaxInt32 {
		return fmt.Errorf("%w: %d", ErrIDOutOfRange, id)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.positions[id]; ok {
		return fmt.Errorf("%w: %d", vector.ErrDuplicateID, id)
	}

	x.append(id, vector.Normalize(vec))
	x.insert(int32(len(x.vectors) - 1))

	x.logger.Debug("added vector to hnsw index", "id", id, "count", len(x.vectors))

	return nil
}

// append extends the position table. Callers hold the write lock.
func (x *Index) append(id int64, unit []float32) {
	x.vectors = append(x.vectors, unit)
	x.ids = append(x.ids, id)
	x.positions[id] = int32(len(x.ids) - 1)
}

// Search returns up to k nearest neighbors of query by cosine similarity.
func (x *Index) Search(_ context.Context, query []float32, k int) ([]vector.Result, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if k <= 0 || x.entry < 0 {
		return []vector.Result{}, nil
	}

	if len(query) != x.cfg.Dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", vector.ErrDimensionMismatch, len(query), x.cfg.Dimensions)
	}

	q := vector.Normalize(query)
	ef := max(x.cfg.EfSearch, k)

	ep := x.entry
	for layer := x.maxLevel; layer > 0; layer-- {
		ep = x.greedy(q, ep, layer)
	}

	found := x.searchLayer(q, []int32{ep}, ef, 0)
	if len(found) > k {
		found = found[:k]
	}

	results := make([]vector.Result, len(found))
	for i, c := range found {
		results[i] = vector.Result{
			ID:         x.ids[c.pos],
			Similarity: 1 - c.dist,
		}
	}

	return results, nil
}

// Len returns the number of indexed vectors.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Count implements vector.Driver.
func (x *Index) Count(_ context.Context) (int, error) {
	return x.Len(), nil
}

// Dimensions returns the configured vector dimension.
func (x *Index) Dimensions() int {
	return x.cfg.Dimensions
}

// Close is a no-op; callers flush with Save.
func (x *Index) Close() error {
	return nil
}
