package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used in tests and local scenarios.
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	records []T
	// AppendErr, when set, is returned by Append instead of storing the record.
	AppendErr error
}

func NewMemoryStore[T any](seed ...T) *MemoryStore[T] {
	records := make([]T, len(seed))
	copy(records, seed)
	return &MemoryStore[T]{records: records}
}

func (s *MemoryStore[T]) ReadAll(context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStore[T]) Append(_ context.Context, record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AppendErr != nil {
		return s.AppendErr
	}
	s.records = append(s.records, record)
	return nil
}
