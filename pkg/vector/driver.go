// Package vector provides the vector index abstraction used for semantic
// retrieval of validated interactions.
package vector

import "context"

// Result is a single nearest-neighbor hit.
type Result struct {
	// ID is the external identifier the vector was added with, the
	// interaction id.
	ID int64

	// Similarity is 1 - cosine distance, higher is more similar.
	Similarity float32
}

// Driver handles storage and retrieval of interaction embeddings.
type Driver interface {
	// Add stores a vector under id. Vectors are normalized before storage.
	Add(ctx context.Context, id int64, embedding []float32) error

	// Search returns up to k results ordered by descending similarity.
	// An empty index yields an empty slice and no error.
	Search(ctx context.Context, query []float32, k int) ([]Result, error)

	// Count returns the number of stored vectors.
	Count(ctx context.Context) (int, error)

	// Save flushes the index to durable storage. Drivers backed by a
	// database commit on Add and treat Save as a no-op.
	Save() error

	// Close releases any resources held by the driver.
	Close() error
}
