package history

import (
	"context"
	"strings"
	"sync"
)

// Memory is a thread-safe in-process history.
type Memory struct {
	mu    sync.RWMutex
	items []string
	size  int
}

// NewMemory creates an in-memory history holding up to size concepts. A size
// of 0 or less uses DefaultSize.
func NewMemory(size int) *Memory {
	return &Memory{size: normalizeSize(size)}
}

// Add records a concept. Blank concepts are ignored.
func (m *Memory) Add(ctx context.Context, concept string) error {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = push(m.items, concept, m.size)
	return nil
}

// List returns the recorded concepts, newest first.
func (m *Memory) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.items...), nil
}

// Clear removes all concepts.
func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

// Len returns the number of recorded concepts.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

var _ Store = (*Memory)(nil)
