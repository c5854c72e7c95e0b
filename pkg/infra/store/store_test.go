package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/cache"
	"github.com/go-redis/redismock/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sampleRecord(id string) *Record {
	return &Record{
		ID:             id,
		AnonymizedText: "Contact me at [EMAIL_1]",
		Entities: []anonymizer.Entity{{
			Start: 14, End: 21, Text: "a@b.com", Label: "EMAIL",
			Replacement: "[EMAIL_1]", AnonStart: 14, AnonEnd: 23,
		}},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// exerciseStore runs the save, get, delete round trip shared by all drivers.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()
	record := sampleRecord("5b0c1f4e-2f1f-4bb4-9a55-3b1d1b7f8a10")

	require.NoError(t, s.Save(ctx, record))

	got, err := s.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.AnonymizedText, got.AnonymizedText)
	assert.Equal(t, record.Entities, got.Entities)
	assert.True(t, record.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, s.Delete(ctx, record.ID))

	_, err = s.Get(ctx, record.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, record.ID), ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(time.Millisecond)
	require.NoError(t, s.Save(context.Background(), sampleRecord("id")))
	time.Sleep(5 * time.Millisecond)
	_, err := s.Get(context.Background(), "id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltStore(t *testing.T) {
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "records.db"), time.Hour, newLogger())
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestBoltStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	record := sampleRecord("persisted")

	s, err := NewBoltStore(path, 0, newLogger())
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), record))
	require.NoError(t, s.Close())

	s, err = NewBoltStore(path, 0, newLogger())
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Entities, got.Entities)
}

func TestBoltStore_Expiry(t *testing.T) {
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "records.db"), time.Minute, newLogger())
	require.NoError(t, err)
	defer s.Close()

	record := sampleRecord("old")
	record.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, s.Save(context.Background(), record))

	_, err = s.Get(context.Background(), "old")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), "old"), ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(cache.NewClientFromRedis(db), time.Hour)
	ctx := context.Background()

	record := sampleRecord("abc")
	payload, err := json.Marshal(record)
	require.NoError(t, err)
	key := "privacyguard:anonymization:abc"

	mock.ExpectSet(key, string(payload), time.Hour).SetVal("OK")
	require.NoError(t, s.Save(ctx, record))

	mock.ExpectGet(key).SetVal(string(payload))
	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, record.Entities, got.Entities)

	mock.ExpectDel(key).SetVal(1)
	require.NoError(t, s.Delete(ctx, "abc"))

	mock.ExpectGet(key).RedisNil()
	_, err = s.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectDel(key).SetVal(0)
	assert.ErrorIs(t, s.Delete(ctx, "abc"), ErrNotFound)

	mock.ExpectGet(key).SetErr(errors.New("connection reset"))
	_, err = s.Get(ctx, "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew(t *testing.T) {
	logger := newLogger()

	s, err := New(Config{Driver: "none"}, nil, logger)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = New(Config{Driver: "Memory", TTL: time.Minute}, nil, logger)
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = New(Config{Driver: "redis"}, nil, logger)
	assert.Error(t, err)

	_, err = New(Config{Driver: "bolt"}, nil, logger)
	assert.Error(t, err)

	s, err = New(Config{Driver: "bolt", BoltPath: filepath.Join(t.TempDir(), "x.db")}, nil, logger)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = New(Config{Driver: "postgres"}, nil, logger)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
