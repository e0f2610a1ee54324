package vector

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector does not have the
	// configured number of dimensions.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrDuplicateID is returned when an id is added twice.
	ErrDuplicateID = errors.New("vector id already indexed")

	// ErrConnection is returned when the vector store connection fails.
	ErrConnection = errors.New("vector store connection failed")
)
