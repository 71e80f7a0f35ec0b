package sessionstore

import (
	"context"
	"sync"

	"github.com/trezcool/masomo/portal/core/session"
)

type memoryStorage struct {
	mutex sync.RWMutex
	table map[string][]byte
}

var _ session.Storage = (*memoryStorage)(nil)

// NewMemoryStorage returns a process-local storage; sessions do not survive restarts.
func NewMemoryStorage() session.Storage {
	return &memoryStorage{table: make(map[string][]byte)}
}

func (s *memoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	data, ok := s.table[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (s *memoryStorage) Save(_ context.Context, key string, data []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.table[key] = append([]byte(nil), data...)
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.table, key)
	return nil
}
