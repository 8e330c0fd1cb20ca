package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"drag-drop-game/internal/domain"
	"drag-drop-game/internal/repository"
)

// GormPlayerRepository 是 PlayerRepository 接口的 GORM 实现
type GormPlayerRepository struct {
	db *gorm.DB
}

// NewGormPlayerRepository 创建 GormPlayerRepository 实例
func NewGormPlayerRepository(db *gorm.DB) *GormPlayerRepository {
	if db == nil {
		panic("database connection cannot be nil for GormPlayerRepository")
	}
	return &GormPlayerRepository{db: db}
}

func (r *GormPlayerRepository) FindByID(ctx context.Context, id uint) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).First(&player, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("gorm: find player by id %d: %w", id, err)
	}
	return &player, nil
}

// FindByRoomID 按 ID 升序返回，即加入顺序
func (r *GormPlayerRepository) FindByRoomID(ctx context.Context, roomID uint) ([]domain.Player, error) {
	players := make([]domain.Player, 0)
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("id asc").Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find players by room %d: %w", roomID, err)
	}
	return players, nil
}

func (r *GormPlayerRepository) FindByRoomIDAndName(ctx context.Context, roomID uint, name string) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND name = ?", roomID, name).
		Order("id asc").
		First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("gorm: find player '%s' in room %d: %w", name, roomID, err)
	}
	return &player, nil
}

// ExistsUnfinishedInRoom 使用 Count 只查询数量
func (r *GormPlayerRepository) ExistsUnfinishedInRoom(ctx context.Context, roomID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Player{}).
		Where("room_id = ? AND is_finished = ?", roomID, false).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: count unfinished players in room %d: %w", roomID, err)
	}
	return count > 0, nil
}

func (r *GormPlayerRepository) Save(ctx context.Context, player *domain.Player) error {
	if err := r.db.WithContext(ctx).Save(player).Error; err != nil {
		return fmt.Errorf("gorm: save player (id: %d, room: %d, name: %s): %w", player.ID, player.RoomID, player.Name, err)
	}
	return nil
}
