// Package qdrant provides a vector driver backed by a remote Qdrant collection.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/papercomputeco/ragsql/pkg/vector"
)

const (
	defaultCollection = "ragsql_interactions"
	defaultPort       = 6334
)

// Config holds configuration for the Qdrant driver.
type Config struct {
	// Target is the gRPC address, host or host:port.
	Target string

	// Collection defaults to "ragsql_interactions".
	Collection string

	APIKey     string
	UseTLS     bool
	Dimensions uint
}

// Driver implements vector.Driver on a Qdrant collection using cosine
// distance. Point ids are interaction ids.
type Driver struct {
	client     *qdrant.Client
	collection string
	dimensions uint
	logger     *slog.Logger
}

var _ vector.Driver = (*Driver)(nil)

// NewDriver connects to Qdrant and creates the collection if it is missing.
func NewDriver(ctx context.Context, c Config, logger *slog.Logger) (*Driver, error) {
	if c.Target == "" {
		return nil, errors.New("qdrant target is required")
	}
	if c.Dimensions == 0 {
		return nil, errors.New("qdrant embedding dimensions cannot be 0, must be configured")
	}
	if c.Collection == "" {
		c.Collection = defaultCollection
	}

	host, port, err := splitTarget(c.Target)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: c.APIKey,
		UseTLS: c.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}

	exists, err := client.CollectionExists(ctx, c.Collection)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: checking collection: %v", vector.ErrConnection, err)
	}

	if !exists {
		err = client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: c.Collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(c.Dimensions),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("creating collection %s: %w", c.Collection, err)
		}
	}

	logger.Info("qdrant vector driver initialized",
		"host", host,
		"port", port,
		"collection", c.Collection,
		"created", !exists,
	)

	return &Driver{
		client:     client,
		collection: c.Collection,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

func splitTarget(target string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		// No port given.
		return target, defaultPort, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid qdrant port %q: %w", portStr, err)
	}

	return host, port, nil
}

// Add upserts the point and waits for it to be indexed.
func (d *Driver) Add(ctx context.Context, id int64, embedding []float32) error {
	if uint(len(embedding)) != d.dimensions {
		return fmt.Errorf("%w: got %d, want %d", vector.ErrDimensionMismatch, len(embedding), d.dimensions)
	}
	if id < 0 {
		return fmt.Errorf("qdrant point ids must be non-negative, got %d", id)
	}

	_, err := d.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: d.collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDNum(uint64(id)),
				Vectors: qdrant.NewVectors(vector.Normalize(embedding)...),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("upserting point %d: %w", id, err)
	}

	d.logger.Debug("added vector to qdrant", "id", id, "collection", d.collection)

	return nil
}

// Search returns the k nearest points. Qdrant's cosine score is already a
// similarity.
func (d *Driver) Search(ctx context.Context, query []float32, k int) ([]vector.Result, error) {
	if k <= 0 {
		return []vector.Result{}, nil
	}
	if uint(len(query)) != d.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", vector.ErrDimensionMismatch, len(query), d.dimensions)
	}

	points, err := d.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: d.collection,
		Query:          qdrant.NewQuery(vector.Normalize(query)...),
		Limit:          qdrant.PtrOf(uint64(k)),
	})
	if err != nil {
		return nil, fmt.Errorf("querying qdrant: %w", err)
	}

	results := make([]vector.Result, 0, len(points))
	for _, p := range points {
		results = append(results, vector.Result{
			ID:         int64(p.GetId().GetNum()),
			Similarity: p.GetScore(),
		})
	}

	return results, nil
}

// Count returns the exact number of points in the collection.
func (d *Driver) Count(ctx context.Context) (int, error) {
	n, err := d.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: d.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("counting qdrant points: %w", err)
	}
	return int(n), nil
}

// Save is a no-op: upserts wait for the server to persist.
func (d *Driver) Save() error {
	return nil
}

// Close closes the gRPC connection.
func (d *Driver) Close() error {
	return d.client.Close()
}
