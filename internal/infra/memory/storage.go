package memory

import (
	"context"
	"sync"
)

// Storage is an in-memory implementation of app.Storage. Nothing survives the process.
type Storage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	saves int
}

func NewStorage() *Storage {
	return &Storage{blobs: make(map[string][]byte)}
}

func (s *Storage) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (s *Storage) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	s.saves++
	return nil
}

// Saves reports how many writes have been made (useful for tests).
func (s *Storage) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
