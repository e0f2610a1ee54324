package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/ragsql/pkg/vector"
)

// MockVectorDriver is a test vector driver. Search returns Results as
// configured, truncated to k, regardless of the query.
type MockVectorDriver struct {
	mu sync.Mutex

	Results []vector.Result
	Added   map[int64][]float32
	Order   []int64
	Queries [][]float32

	Saves  int
	Closed bool

	SearchErr error
	AddErr    error
	SaveErr   error
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		Added: make(map[int64][]float32),
	}
}

func (m *MockVectorDriver) Add(_ context.Context, id int64, embedding []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AddErr != nil {
		return m.AddErr
	}
	if _, ok := m.Added[id]; ok {
		return vector.ErrDuplicateID
	}
	m.Added[id] = embedding
	m.Order = append(m.Order, id)
	return nil
}

func (m *MockVectorDriver) Search(_ context.Context, query []float32, k int) ([]vector.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queries = append(m.Queries, query)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if len(m.Results) < k {
		return m.Results, nil
	}
	return m.Results[:k], nil
}

func (m *MockVectorDriver) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Added), nil
}

func (m *MockVectorDriver) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	return m.SaveErr
}

func (m *MockVectorDriver) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

var _ vector.Driver = (*MockVectorDriver)(nil)
