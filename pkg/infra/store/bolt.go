package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const boltBucket = "anonymizations"

// boltStore keeps records in an embedded bbolt file. Expired records are
// reported as missing and removed lazily.
type boltStore struct {
	db     *bolt.DB
	ttl    time.Duration
	logger *logrus.Logger
}

func NewBoltStore(path string, ttl time.Duration, logger *logrus.Logger) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt store: path is required")
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt store %q: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bolt bucket: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"path": path,
		"ttl":  ttl.String(),
	}).Info("bolt store opened")
	return &boltStore{db: db, ttl: ttl, logger: logger}, nil
}

func (s *boltStore) Save(_ context.Context, record *Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltBucket))
		if b == nil {
			return fmt.Errorf("bucket %q not found", boltBucket)
		}
		return b.Put([]byte(record.ID), payload)
	})
}

func (s *boltStore) Get(ctx context.Context, id string) (*Record, error) {
	var payload []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltBucket))
		if b == nil {
			return nil
		}
		// the slice is only valid inside the transaction
		if v := b.Get([]byte(id)); v != nil {
			payload = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	if payload == nil {
		return nil, ErrNotFound
	}

	record := new(Record)
	if err := json.Unmarshal(payload, record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	if expired(record, s.ttl, time.Now()) {
		if err := s.Delete(ctx, id); err != nil {
			s.logger.WithError(err).WithField("id", id).Warn("failed to evict expired record")
		}
		return nil, ErrNotFound
	}
	return record, nil
}

func (s *boltStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltBucket))
		if b == nil || b.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

func (s *boltStore) Close() error {
	return s.db.Close()
}
