package repository

import (
	"context"
	"sync"
)

type memoryParamStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryParamStore returns a ParamStore preloaded with seed.
func NewMemoryParamStore(seed map[string]string) ParamStore {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &memoryParamStore{values: values}
}

func (s *memoryParamStore) Get(_ context.Context, path string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[path]
	return v, ok, nil
}

func (s *memoryParamStore) Set(_ context.Context, path, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[path] = value
	return nil
}
