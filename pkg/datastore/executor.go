// Package datastore executes generated query text against the analysed
// database and returns the result as a Table.
package datastore

import "context"

// Executor runs opaque query text.
type Executor interface {
	// Execute runs query and returns every row. Failures are returned as
	// *ExecutionError.
	Execute(ctx context.Context, query string) (*Table, error)

	// Close releases the underlying connection pool.
	Close() error
}
