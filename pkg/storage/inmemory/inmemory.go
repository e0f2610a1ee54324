// Package inmemory provides an ephemeral interaction store for tests and
// one-off runs.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/papercomputeco/ragsql/pkg/storage"
)

// Driver implements storage.Driver using an in-memory slice.
type Driver struct {
	// mu guards interactions and nextID.
	mu sync.RWMutex

	interactions []*storage.Interaction
	nextID       int64
}

var _ storage.Driver = (*Driver)(nil)

// NewDriver creates a new in-memory store.
func NewDriver() *Driver {
	return &Driver{nextID: 1}
}

// Insert stores a copy of the interaction under the next id.
func (s *Driver) Insert(_ context.Context, i *storage.Interaction) (int64, error) {
	if err := i.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	i.ID = s.nextID
	s.nextID++

	s.interactions = append(s.interactions, clone(i))

	return i.ID, nil
}

// GetByID returns a copy of the interaction, or nil if unknown.
func (s *Driver) GetByID(_ context.Context, id int64) (*storage.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, i := range s.interactions {
		if i.ID == id {
			return clone(i), nil
		}
	}

	return nil, nil
}

// List returns copies of all interactions in id order.
func (s *Driver) List(_ context.Context) ([]*storage.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*storage.Interaction, len(s.interactions))
	for n, i := range s.interactions {
		out[n] = clone(i)
	}
	return out, nil
}

// Count returns the number of stored interactions.
func (s *Driver) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.interactions), nil
}

// Close is a no-op.
func (s *Driver) Close() error {
	return nil
}

func clone(i *storage.Interaction) *storage.Interaction {
	c := *i
	c.Embedding = append([]float32(nil), i.Embedding...)
	if i.QuerySteps != nil {
		c.QuerySteps = append([]string(nil), i.QuerySteps...)
	}
	if i.AnalysisCode != nil {
		code := *i.AnalysisCode
		c.AnalysisCode = &code
	}
	return &c
}
