package hnsw

import "errors"

var (
	// ErrCorrupt is returned when persisted vectors or ids cannot be read.
	// A corrupt graph blob alone is not an error: the graph is rebuilt.
	ErrCorrupt = errors.New("hnsw index artifacts are corrupt")

	// ErrIDOutOfRange is returned for ids that do not fit the int32 id file.
	ErrIDOutOfRange = errors.New("hnsw id out of int32 range")

	// ErrNoBasePath is returned by Save and Load on an in-memory index.
	ErrNoBasePath = errors.New("hnsw index has no base path")
)
