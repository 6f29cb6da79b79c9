package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/me/blogfront/pkg/model"
)

const (
	defaultRedisTimeout = 5 * time.Second
	redisKeyPrefix      = "blogfront:session:"
)

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// ConnectRedis initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStore implements Store on Redis. Each record is one JSON value whose
// TTL matches the record's absolute expiry, so Redis evicts expired sessions itself.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.With("component", "store", "backend", "redis"),
	}
}

func (s *RedisStore) key(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) SaveSession(ctx context.Context, rec *model.SessionRecord) error {
	s.logger.Debug("redis", "op", "set", "id", rec.ID)

	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		// Already expired: nothing worth keeping.
		return s.DeleteSession(ctx, rec.ID)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(rec.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) GetSession(ctx context.Context, id string) (*model.SessionRecord, error) {
	s.logger.Debug("redis", "op", "get", "id", id)

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var rec model.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("session %s: %w: %v", id, model.ErrCorruptRecord, err)
	}
	return &rec, nil
}

// DeleteSession is idempotent: deleting a missing key is not an error.
func (s *RedisStore) DeleteSession(ctx context.Context, id string) error {
	s.logger.Debug("redis", "op", "del", "id", id)
	return s.client.Del(ctx, s.key(id)).Err()
}

// DeleteExpiredSessions is a no-op: keys carry their own TTL.
func (s *RedisStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

// Ping reports backend reachability for health checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
