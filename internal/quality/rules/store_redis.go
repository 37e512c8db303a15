package rules

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"dqengine/internal/quality/models"
)

const rulesKeyPrefix = "dq:rules:"

// RedisStore is a read-through tier in front of another Store, shared by all
// engine instances. Redis failures fall through to the wrapped store so the
// tier never makes rule loading less available than the database alone.
type RedisStore struct {
	client *redis.Client
	next   Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStore wraps next with a Redis tier whose keys live for ttl.
func NewRedisStore(client *redis.Client, next Store, ttl time.Duration, logger *slog.Logger) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{client: client, next: next, ttl: ttl, logger: logger}
}

func redisKey(table, column string) string {
	return rulesKeyPrefix + Key(table, column)
}

func (s *RedisStore) ListRules(ctx context.Context, table, column string) ([]models.RuleRecord, error) {
	key := redisKey(table, column)

	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var records []models.RuleRecord
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, nil
		}
		s.logger.WarnContext(ctx, "discarding undecodable cached rules", "key", key)
	case !errors.Is(err, redis.Nil):
		s.logger.DebugContext(ctx, "redis rule lookup failed", "key", key, "error", err)
	}

	records, err := s.next.ListRules(ctx, table, column)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(records); err == nil {
		if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
			s.logger.DebugContext(ctx, "redis rule write failed", "key", key, "error", err)
		}
	}
	return records, nil
}

// Invalidate deletes the shared copy of (table, column).
func (s *RedisStore) Invalidate(ctx context.Context, table, column string) error {
	return s.client.Del(ctx, redisKey(table, column)).Err()
}
