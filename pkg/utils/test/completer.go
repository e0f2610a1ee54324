package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/papercomputeco/ragsql/pkg/llm"
)

// CompletionCall records one Complete invocation.
type CompletionCall struct {
	Role   llm.Role
	Prompt string
}

// MockCompleter replays scripted completions per role, in order. The last
// scripted response for a role is repeated once the queue is exhausted.
type MockCompleter struct {
	mu sync.Mutex

	Responses map[llm.Role][]string
	Errors    map[llm.Role]error
	Calls     []CompletionCall
}

func NewMockCompleter() *MockCompleter {
	return &MockCompleter{
		Responses: make(map[llm.Role][]string),
		Errors:    make(map[llm.Role]error),
	}
}

// On appends scripted responses for role and returns the mock for chaining.
func (m *MockCompleter) On(role llm.Role, responses ...string) *MockCompleter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[role] = append(m.Responses[role], responses...)
	return m
}

func (m *MockCompleter) Complete(_ context.Context, role llm.Role, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, CompletionCall{Role: role, Prompt: prompt})

	if err := m.Errors[role]; err != nil {
		return "", err
	}

	queue := m.Responses[role]
	switch len(queue) {
	case 0:
		return "", fmt.Errorf("%w: no scripted response for role %s", llm.ErrCompletion, role)
	case 1:
		return queue[0], nil
	default:
		m.Responses[role] = queue[1:]
		return queue[0], nil
	}
}

// CallsFor returns the recorded calls for role.
func (m *MockCompleter) CallsFor(role llm.Role) []CompletionCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var calls []CompletionCall
	for _, c := range m.Calls {
		if c.Role == role {
			calls = append(calls, c)
		}
	}
	return calls
}

var _ llm.Completer = (*MockCompleter)(nil)
