// Package store persists anonymization results so that a caller can
// deanonymize with an anonymization_id instead of sending the entity list back.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/cache"
	"github.com/sirupsen/logrus"
)

const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverBolt   = "bolt"
)

var (
	ErrNotFound      = errors.New("anonymization not found")
	ErrUnknownDriver = errors.New("unknown store driver")
)

type Record struct {
	ID             string              `json:"id"`
	AnonymizedText string              `json:"anonymized_text"`
	Entities       []anonymizer.Entity `json:"entities"`
	CreatedAt      time.Time           `json:"created_at"`
}

type Store interface {
	Save(ctx context.Context, record *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

type Config struct {
	Driver   string
	TTL      time.Duration
	BoltPath string
}

// New builds the configured store. DriverNone (or an empty driver) yields a
// nil Store. The redis driver needs a connected cache client.
func New(cfg Config, cacheClient cache.Client, logger *logrus.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", DriverNone:
		return nil, nil
	case DriverMemory:
		return NewMemoryStore(cfg.TTL), nil
	case DriverRedis:
		if cacheClient == nil {
			return nil, fmt.Errorf("redis store: cache client is required")
		}
		return NewRedisStore(cacheClient, cfg.TTL), nil
	case DriverBolt:
		return NewBoltStore(cfg.BoltPath, cfg.TTL, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func expired(record *Record, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.After(record.CreatedAt.Add(ttl))
}
