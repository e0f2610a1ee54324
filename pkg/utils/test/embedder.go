package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/papercomputeco/ragsql/pkg/embeddings"
)

// MockEmbedder is a test embedder that returns predictable embeddings
type MockEmbedder struct {
	mu sync.Mutex

	Embeddings map[string][]float32

	// Default is returned for text without an entry in Embeddings.
	Default []float32

	// FailOn causes Embed to return an error when the input text matches
	FailOn string

	// Texts records every embedded text in call order.
	Texts []string
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
		Default:    []float32{0.1, 0.2, 0.3},
	}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Texts = append(m.Texts, text)

	if m.FailOn != "" && text == m.FailOn {
		return nil, fmt.Errorf("%w: mock embedding failure for: %s", embeddings.ErrEmbedding, text)
	}

	if emb, ok := m.Embeddings[text]; ok {
		return emb, nil
	}

	return m.Default, nil
}

func (m *MockEmbedder) Close() error {
	return nil
}

var _ embeddings.Embedder = (*MockEmbedder)(nil)
