package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/ragsql/pkg/datastore"
)

// MockExecutor returns tables keyed by exact query text. Queries in Errors
// fail; queries with no entry return Default, or an empty table.
type MockExecutor struct {
	mu sync.Mutex

	Tables  map[string]*datastore.Table
	Errors  map[string]error
	Default *datastore.Table
	Queries []string
	Closed  bool
}

func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Tables: make(map[string]*datastore.Table),
		Errors: make(map[string]error),
	}
}

// FailWith makes query fail with a syntax-class ExecutionError carrying msg.
func (m *MockExecutor) FailWith(query, msg string) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[query] = &datastore.ExecutionError{
		Query:   query,
		Message: msg,
		Class:   datastore.ClassSyntax,
	}
	return m
}

func (m *MockExecutor) Execute(ctx context.Context, query string) (*datastore.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queries = append(m.Queries, query)

	if err := ctx.Err(); err != nil {
		return nil, &datastore.ExecutionError{Query: query, Message: err.Error(), Class: datastore.ClassTimeout, Err: err}
	}
	if err := m.Errors[query]; err != nil {
		return nil, err
	}
	if t, ok := m.Tables[query]; ok {
		return t, nil
	}
	if m.Default != nil {
		return m.Default, nil
	}
	return &datastore.Table{Rows: [][]any{}}, nil
}

func (m *MockExecutor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

var _ datastore.Executor = (*MockExecutor)(nil)
