package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

// RedisStore keeps the status envelope as a JSON string and the log buffer as
// a Redis list. SET and GET are atomic per key, which is all the envelope
// contract needs.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) GetStatus(ctx context.Context, kind entities.TaskKind, targetID string) (*entities.ProgressEnvelope, error) {
	raw, err := s.client.Get(ctx, statusKey(kind, targetID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	var envelope entities.ProgressEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("decode status envelope: %w", err)
	}
	return &envelope, nil
}

func (s *RedisStore) SetStatus(ctx context.Context, kind entities.TaskKind, targetID string, envelope entities.ProgressEnvelope) error {
	raw, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encode status envelope: %w", err)
	}
	return s.client.Set(ctx, statusKey(kind, targetID), raw, s.ttl).Err()
}

func (s *RedisStore) GetLogs(ctx context.Context, kind entities.TaskKind, targetID string) ([]string, error) {
	lines, err := s.client.LRange(ctx, logsKey(kind, targetID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get logs: %w", err)
	}
	return lines, nil
}

func (s *RedisStore) AppendLogs(ctx context.Context, kind entities.TaskKind, targetID string, lines ...string) error {
	if len(lines) == 0 {
		return nil
	}
	key := logsKey(kind, targetID)
	values := make([]interface{}, len(lines))
	for i, line := range lines {
		values[i] = line
	}
	if err := s.client.RPush(ctx, key, values...).Err(); err != nil {
		return fmt.Errorf("append logs: %w", err)
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}

func (s *RedisStore) ClearLogs(ctx context.Context, kind entities.TaskKind, targetID string) error {
	return s.client.Del(ctx, logsKey(kind, targetID)).Err()
}

func (s *RedisStore) Delete(ctx context.Context, kind entities.TaskKind, targetID string) error {
	return s.client.Del(ctx, statusKey(kind, targetID), logsKey(kind, targetID)).Err()
}
