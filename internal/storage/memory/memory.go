package memory

import (
	"context"
	"sync"

	"github.com/DoyleJ11/giftbox-letters/internal/storage"
)

type Store struct {
	mu     sync.RWMutex
	m      map[string]string
	closed bool
}

var _ storage.KV = (*Store)(nil)

func New() *Store {
	return &Store{m: map[string]string{}}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, storage.ErrClosed
	}
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Store) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	s.m[key] = value
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
