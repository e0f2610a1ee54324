package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/ragsql/pkg/datastore"
	"github.com/papercomputeco/ragsql/pkg/sandbox"
)

// SandboxCall records one Run invocation.
type SandboxCall struct {
	Code  string
	Table *datastore.Table
}

// MockSandbox returns Output, or Err when set.
type MockSandbox struct {
	mu sync.Mutex

	Output *sandbox.AnalysisOutput
	Err    error
	Calls  []SandboxCall
}

func NewMockSandbox() *MockSandbox {
	return &MockSandbox{
		Output: &sandbox.AnalysisOutput{Result: "42", Formula: "x", Explanation: "mock analysis"},
	}
}

func (m *MockSandbox) Run(_ context.Context, code string, table *datastore.Table) (*sandbox.AnalysisOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, SandboxCall{Code: code, Table: table})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Output, nil
}

var _ sandbox.Runner = (*MockSandbox)(nil)
