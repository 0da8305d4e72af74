package explain

import (
	"context"
	"sync"
)

// MockExplainer returns a canned explanation and records what it was asked.
// Safe for concurrent use.
type MockExplainer struct {
	// Response is returned for every request. Empty means a default text.
	Response string

	mu    sync.Mutex
	codes []string
}

func (m *MockExplainer) Explain(ctx context.Context, code string) (string, error) {
	m.mu.Lock()
	m.codes = append(m.codes, code)
	m.mu.Unlock()

	if m.Response == "" {
		return "mock explanation", nil
	}
	return m.Response, nil
}

// Calls returns how many requests the mock has received.
func (m *MockExplainer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.codes)
}

// Codes returns a copy of the code snippets requested so far, in order.
func (m *MockExplainer) Codes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.codes...)
}

// FailingExplainer fails every request with a fixed error.
type FailingExplainer struct {
	Err error
}

func (f *FailingExplainer) Explain(ctx context.Context, code string) (string, error) {
	return "", f.Err
}
