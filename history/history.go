// Package history keeps the most recently analyzed concepts.
package history

import (
	"context"
	"fmt"
	"strings"
)

// DefaultSize is the number of concepts kept.
const DefaultSize = 5

// Store records recently analyzed concepts, newest first. Concepts are
// de-duplicated case-insensitively; re-adding one moves it to the front with
// its latest spelling.
type Store interface {
	Add(ctx context.Context, concept string) error
	List(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

// HistoryError reports a failed history operation.
type HistoryError struct {
	Op  string
	Err error
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *HistoryError) Unwrap() error {
	return e.Err
}

// push returns list with concept moved to the front, trimmed to size.
func push(list []string, concept string, size int) []string {
	out := make([]string, 0, size)
	out = append(out, concept)
	for _, c := range list {
		if len(out) == size {
			break
		}
		if !strings.EqualFold(c, concept) {
			out = append(out, c)
		}
	}
	return out
}

func normalizeSize(size int) int {
	if size <= 0 {
		return DefaultSize
	}
	return size
}
