// Package cache wraps the redis connection used by the redis-backed
// anonymization store, and provides TTLMap for the in-process store.
package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	connectTimeout   = 5 * time.Second
	operationTimeout = 2 * time.Second
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	TLS      bool
}

func (c Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type client struct {
	redisClient *redis.Client
}

// NewClient connects and pings; an unreachable redis fails start-up.
func NewClient(config Config, logger *logrus.Logger) (Client, error) {
	options := &redis.Options{
		Addr:     config.addr(),
		Password: config.Password,
		DB:       config.DB,
	}
	if config.TLS {
		options.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		logger.WithFields(logrus.Fields{
			"addr":  config.addr(),
			"error": err.Error(),
		}).Error("failed to connect to redis")
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"addr": config.addr(),
		"db":   config.DB,
		"tls":  config.TLS,
	}).Info("redis connected")

	return NewClientFromRedis(redisClient), nil
}

// NewClientFromRedis wraps an existing connection, e.g. a redismock client.
func NewClientFromRedis(redisClient *redis.Client) Client {
	return &client{redisClient: redisClient}
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()
	value, err := c.redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return value, err
}

func (c *client) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()
	return c.redisClient.Set(ctx, key, value, expiration).Err()
}

// Delete reports whether the key existed.
func (c *client) Delete(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()
	n, err := c.redisClient.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *client) Ping(ctx context.Context) error {
	return c.redisClient.Ping(ctx).Err()
}

func (c *client) Close() error {
	return c.redisClient.Close()
}
