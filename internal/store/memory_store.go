package store

import (
	"context"
	"sync"

	"github.com/darshan-ceo/beacon-search/internal/models"
)

// MemoryStore is an in-process RecordStore used by tests and by local
// development without Postgres/Redis.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[models.EntityKind][]models.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[models.EntityKind][]models.Record),
	}
}

func (s *MemoryStore) GetAll(ctx context.Context, kind models.EntityKind) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Record, len(s.records[kind]))
	copy(out, s.records[kind])
	return out, nil
}

func (s *MemoryStore) Put(kind models.EntityKind, recs ...models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[kind] = append(s.records[kind], recs...)
}

// MemorySessionStore is an in-process SessionStore for tests.
type MemorySessionStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{values: make(map[string]string)}
}

func (s *MemorySessionStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (s *MemorySessionStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
