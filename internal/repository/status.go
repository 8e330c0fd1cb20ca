package repository

import (
	"context"

	"drag-drop-game/internal/domain"
)

// StatusPublisher 发布房间状态变化。
type StatusPublisher interface {
	PublishRoomStatus(ctx context.Context, event domain.RoomStatusEvent) error
}

// StatusSubscriber 订阅所有房间的状态变化，ctx 结束时返回的通道被关闭。
type StatusSubscriber interface {
	SubscribeRoomStatus(ctx context.Context) (<-chan domain.RoomStatusEvent, error)
}
