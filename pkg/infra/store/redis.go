package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/cache"
)

const recordKeyPattern = "privacyguard:anonymization:%s"

type redisStore struct {
	client cache.Client
	ttl    time.Duration
}

func NewRedisStore(client cache.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func recordKey(id string) string {
	return fmt.Sprintf(recordKeyPattern, id)
}

func (s *redisStore) Save(ctx context.Context, record *Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := s.client.Set(ctx, recordKey(record.ID), string(payload), s.ttl); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*Record, error) {
	payload, err := s.client.Get(ctx, recordKey(id))
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	record := new(Record)
	if err := json.Unmarshal([]byte(payload), record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return record, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	existed, err := s.client.Delete(ctx, recordKey(id))
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if !existed {
		return ErrNotFound
	}
	return nil
}

// Close is a no-op, the cache client is owned by the container.
func (s *redisStore) Close() error {
	return nil
}
