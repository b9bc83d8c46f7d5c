package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests.
type MemoryStore struct {
	mu       sync.RWMutex
	contents map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{contents: make(map[string][]byte)}
}

func (s *MemoryStore) Save(ctx context.Context, id string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(content))
	copy(buf, content)
	s.contents[id] = buf
	return nil
}

func (s *MemoryStore) Open(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.contents[id]
	if !ok {
		return nil, notFoundErr(id)
	}
	return content, nil
}

func (s *MemoryStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.contents[id]
	return ok, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len reports the number of stored artifacts; tests use it to assert that
// rejected requests leave no side effects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contents)
}
