package repository

import (
	"context"

	"drag-drop-game/internal/domain"
)

// LevelRepository 定义了关卡的存储和查询。
type LevelRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Level, error)
	FindAll(ctx context.Context) ([]domain.Level, error)
	FindByRoomID(ctx context.Context, roomID uint) ([]domain.Level, error)

	// FindByLevelOrder 返回指定序号的关卡；若有多个，取 ID 最小的一个。
	FindByLevelOrder(ctx context.Context, order int) (*domain.Level, error)

	Save(ctx context.Context, level *domain.Level) error
	Delete(ctx context.Context, id uint) error

	// ListImageURLs 返回所有关卡引用的图片地址，供孤儿文件清理使用。
	ListImageURLs(ctx context.Context) ([]string, error)
}
