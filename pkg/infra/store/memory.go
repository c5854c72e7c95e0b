package store

import (
	"context"
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/cache"
)

type memoryStore struct {
	records *cache.TTLMap
}

func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{records: cache.NewTTLMap(ttl)}
}

func (s *memoryStore) Save(_ context.Context, record *Record) error {
	s.records.Set(record.ID, *record)
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*Record, error) {
	value, ok := s.records.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	record, ok := value.(Record)
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	if !s.records.Delete(id) {
		return ErrNotFound
	}
	return nil
}

func (s *memoryStore) Close() error {
	s.records.Clear()
	return nil
}
