package redisstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"drag-drop-game/internal/domain"
	"drag-drop-game/internal/repository"
)

// RedisSessionRepository 是 SessionRepository 接口的 Redis 实现，过期交给 key TTL
type RedisSessionRepository struct {
	client *redis.Client
	keys   keyspace
}

// NewRedisSessionRepository 创建 RedisSessionRepository 实例
func NewRedisSessionRepository(client *redis.Client, keyPrefix string) *RedisSessionRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisSessionRepository")
	}
	return &RedisSessionRepository{client: client, keys: newKeyspace(keyPrefix)}
}

// Save 写入会话，ttl 为 0 表示不过期
func (r *RedisSessionRepository) Save(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	key := r.keys.session(session.ID)
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis: failed to marshal session %s: %w", session.ID, err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to save session on key %s: %w", key, err)
	}
	return nil
}

func (r *RedisSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	key := r.keys.session(id)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis: failed to get session from %s: %w", key, err)
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("redis: failed to unmarshal session from %s: %w", key, err)
	}
	return &session, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	key := r.keys.session(id)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: failed to delete session %s: %w", key, err)
	}
	return nil
}
