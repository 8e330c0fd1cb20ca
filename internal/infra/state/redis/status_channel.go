package redisstate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"drag-drop-game/internal/domain"
)

// RedisStatusChannel 通过 Redis Pub/Sub 发布和订阅房间状态变化，
// 多个实例共享同一个频道空间。
type RedisStatusChannel struct {
	client *redis.Client
	keys   keyspace
}

// NewRedisStatusChannel 创建 RedisStatusChannel 实例
func NewRedisStatusChannel(client *redis.Client, keyPrefix string) *RedisStatusChannel {
	if client == nil {
		panic("redis client cannot be nil for RedisStatusChannel")
	}
	return &RedisStatusChannel{client: client, keys: newKeyspace(keyPrefix)}
}

// PublishRoomStatus 将状态变化发布到房间频道
func (c *RedisStatusChannel) PublishRoomStatus(ctx context.Context, event domain.RoomStatusEvent) error {
	channel := c.keys.roomStatusChannel(event.RoomID)
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: failed to marshal status event for room %d: %w", event.RoomID, err)
	}
	if err := c.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis: failed to publish to channel %s: %w", channel, err)
	}
	return nil
}

// SubscribeRoomStatus 按模式订阅所有房间频道。
// 订阅确认后才返回，ctx 取消时关闭订阅和返回的通道。
func (c *RedisStatusChannel) SubscribeRoomStatus(ctx context.Context) (<-chan domain.RoomStatusEvent, error) {
	pattern := c.keys.roomStatusPattern()
	pubsub := c.client.PSubscribe(ctx, pattern)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis: failed to subscribe to %s: %w", pattern, err)
	}

	out := make(chan domain.RoomStatusEvent, 64)
	go func() {
		defer close(out)
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event domain.RoomStatusEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logrus.WithField("channel", msg.Channel).WithError(err).Warn("redis: dropping malformed status event")
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
