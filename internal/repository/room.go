package repository

import (
	"context"

	"drag-drop-game/internal/domain"
)

// RoomRepository 定义了房间数据的存储和检索操作。
type RoomRepository interface {
	// FindByID 根据房间 ID 查找房间，不存在时返回 ErrRoomNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Room, error)

	// FindAll 返回全部房间，按 ID 升序。
	FindAll(ctx context.Context) ([]domain.Room, error)

	// Save 保存房间信息，ID 为零值时创建。
	Save(ctx context.Context, room *domain.Room) error

	// UpdateStatus 只写 status 列。房间已被删除时什么也不做，不会重新创建。
	UpdateStatus(ctx context.Context, id uint, status domain.RoomStatus) error

	// Delete 删除房间。不会级联删除玩家。
	Delete(ctx context.Context, id uint) error
}
