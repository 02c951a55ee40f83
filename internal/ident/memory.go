package ident

import (
	"context"
	"sync"
)

// MemoryStore is the in-process Store used for tests and for deployments
// that accept losing surrogates across restarts.
type MemoryStore struct {
	mu       sync.RWMutex
	bySource map[string]map[string]int64
	byNumber map[string]map[int64]string
}

// NewMemoryStore creates an empty in-memory identifier table.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bySource: map[string]map[string]int64{},
		byNumber: map[string]map[int64]string{},
	}
}

func (s *MemoryStore) BySource(_ context.Context, platform, source string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	num, ok := s.bySource[platform][source]
	return num, ok, nil
}

func (s *MemoryStore) ByNumber(_ context.Context, platform string, num int64) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.byNumber[platform][num]
	return source, ok, nil
}

func (s *MemoryStore) Insert(_ context.Context, platform, source string, num int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bySource[platform][source]; ok {
		return ErrConflict
	}
	if _, ok := s.byNumber[platform][num]; ok {
		return ErrConflict
	}
	if s.bySource[platform] == nil {
		s.bySource[platform] = map[string]int64{}
		s.byNumber[platform] = map[int64]string{}
	}
	s.bySource[platform][source] = num
	s.byNumber[platform][num] = source
	return nil
}
