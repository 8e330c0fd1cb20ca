package repository

import (
	"context"

	"drag-drop-game/internal/domain"
)

// PlayerRepository 定义了房间内玩家的存储和查询。
type PlayerRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Player, error)

	// FindByRoomID 按加入顺序返回房间内所有玩家。
	FindByRoomID(ctx context.Context, roomID uint) ([]domain.Player, error)

	// FindByRoomIDAndName 查找房间内同名玩家，用于重复加入时复用记录。
	FindByRoomIDAndName(ctx context.Context, roomID uint, name string) (*domain.Player, error)

	// ExistsUnfinishedInRoom 检查房间内是否仍有未完成的玩家。
	ExistsUnfinishedInRoom(ctx context.Context, roomID uint) (bool, error)

	Save(ctx context.Context, player *domain.Player) error
}
