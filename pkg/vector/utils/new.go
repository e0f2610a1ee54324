// Package vectorutils builds a vector.Driver from configuration.
package vectorutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/ragsql/pkg/vector"
	"github.com/papercomputeco/ragsql/pkg/vector/hnsw"
	"github.com/papercomputeco/ragsql/pkg/vector/qdrant"
	"github.com/papercomputeco/ragsql/pkg/vector/sqlitevec"
)

const (
	ProviderHNSW   = "hnsw"
	ProviderSQLite = "sqlite"
	ProviderQdrant = "qdrant"
)

type NewVectorDriverOpts struct {
	ProviderType string

	// Target is the index base path (hnsw), database file (sqlite) or
	// host:port (qdrant).
	Target string

	Dimensions     uint
	M              uint
	EfConstruction uint
	EfSearch       uint
	APIKey         string

	Logger *slog.Logger
}

func NewVectorDriver(ctx context.Context, o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case ProviderHNSW, "":
		return hnsw.New(hnsw.Config{
			BasePath:       o.Target,
			Dimensions:     int(o.Dimensions),
			M:              int(o.M),
			EfConstruction: int(o.EfConstruction),
			EfSearch:       int(o.EfSearch),
		}, o.Logger)
	case ProviderSQLite:
		return sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
			DBPath:     o.Target,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case ProviderQdrant:
		return qdrant.NewDriver(ctx, qdrant.Config{
			Target:     o.Target,
			APIKey:     o.APIKey,
			Dimensions: o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
