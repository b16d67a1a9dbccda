package provider

import (
	"context"
	"sync"

	"github.com/ZaguanLabs/conceptcard"
)

// Mock is a scripted adapter for tests and examples. Each call consumes the
// next scripted error; once the script is exhausted it returns Analysis.
// When Err is set every call fails with it.
type Mock struct {
	Analysis conceptcard.Analysis
	Errors   []error
	Err      error

	mu        sync.Mutex
	callCount int
	concepts  []string
}

// NewMock creates a mock adapter that succeeds with a small sample analysis.
func NewMock() *Mock {
	return &Mock{
		Analysis: conceptcard.Normalize(map[string]any{
			"why": map[string]any{
				"title":   map[string]any{"en": "Why it exists", "zh": "为什么存在"},
				"content": map[string]any{"en": "It solves a real problem.", "zh": "它解决了一个实际问题。"},
			},
			"how": map[string]any{
				"title":   map[string]any{"en": "How it feels", "zh": "直观感受"},
				"content": map[string]any{"en": "Like a shared notebook.", "zh": "就像一本共享的笔记本。"},
			},
			"what": map[string]any{
				"coreComponents":        map[string]any{"en": "Parts", "zh": "组成部分"},
				"operatingMechanism":    map[string]any{"en": "Interplay", "zh": "相互作用"},
				"applicationBoundaries": map[string]any{"en": "Limits", "zh": "边界"},
			},
		}),
	}
}

// Failing creates a mock whose every call fails with err.
func Failing(err error) *Mock {
	m := NewMock()
	m.Err = err
	return m
}

// Analyze returns the next scripted result.
func (m *Mock) Analyze(ctx context.Context, concept string) (conceptcard.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.concepts = append(m.concepts, concept)
	i := m.callCount
	m.callCount++

	if err := ctx.Err(); err != nil {
		return conceptcard.Analysis{}, err
	}
	if m.Err != nil {
		return conceptcard.Analysis{}, m.Err
	}
	if i < len(m.Errors) && m.Errors[i] != nil {
		return conceptcard.Analysis{}, m.Errors[i]
	}
	return m.Analysis, nil
}

// CallCount returns the number of Analyze calls.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Concepts returns the concepts received, in order.
func (m *Mock) Concepts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.concepts...)
}

var _ conceptcard.Adapter = (*Mock)(nil)
