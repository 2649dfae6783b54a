// Package memory provides an in-process storage.KeyValueStore. Data does not
// survive a restart.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/mmynk/mycese/internal/storage"
)

var _ storage.KeyValueStore = (*Store)(nil)

// Store is a map-backed key/value store. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	data      map[string][]byte
	failWrite error
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// FailWrites makes every subsequent Set and Delete return err. Pass nil to
// restore normal behavior.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	s.failWrite = err
	s.mu.Unlock()
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	s.data[key] = slices.Clone(value)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	delete(s.data, key)
	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *Store) Close() error { return nil }
