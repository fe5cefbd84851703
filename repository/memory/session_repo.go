// Package memory keeps session entries in process memory. Nothing survives a
// restart; it backs tests and SESSION_BACKEND=memory.
package memory

import (
	"context"
	"sync"

	"github.com/fastygo/foodshare/domain"
)

type SessionStorage struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{entries: make(map[string]string)}
}

func (s *SessionStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	if !ok {
		return "", domain.ErrStorageKeyAbsent
	}
	return v, nil
}

func (s *SessionStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *SessionStorage) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// Len reports the number of stored entries.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
