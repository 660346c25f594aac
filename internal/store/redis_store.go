package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/darshan-ceo/beacon-search/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const entityHashKey = "entities:%s"

// RedisStore is the flat key-value backing store: one hash per entity kind,
// each field holding a JSON blob. It predates the relational mirror and still
// receives writes from the older sync path, so search reads both.
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisStore(client *redis.Client, logger *logrus.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger,
	}
}

func (s *RedisStore) GetAll(ctx context.Context, kind models.EntityKind) ([]models.Record, error) {
	key := fmt.Sprintf(entityHashKey, kind)

	blobs, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s hash: %w", kind, err)
	}

	// Hash iteration order is arbitrary; sort by field for deterministic
	// fan-out order.
	fields := make([]string, 0, len(blobs))
	for field := range blobs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	results := make([]models.Record, 0, len(blobs))
	for _, field := range fields {
		var rec models.Record
		if err := json.Unmarshal([]byte(blobs[field]), &rec); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"kind": kind,
				"id":   field,
			}).Warn("Skipping undecodable entity blob")
			continue
		}
		if rec.ID() == "" {
			rec["id"] = field
		}
		results = append(results, rec)
	}

	return results, nil
}

func (s *RedisStore) Put(ctx context.Context, kind models.EntityKind, rec models.Record) error {
	id := rec.ID()
	if id == "" {
		return fmt.Errorf("record has no identifier")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", id, err)
	}

	return s.client.HSet(ctx, fmt.Sprintf(entityHashKey, kind), id, data).Err()
}

// RedisSessionStore persists session-scoped search state (provider flag,
// recent searches) with a TTL so stale sessions expire on their own.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisSessionStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return val, err
}

func (s *RedisSessionStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
