package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"drag-drop-game/internal/domain"
	"drag-drop-game/internal/repository"
)

// GormLevelRepository 是 LevelRepository 接口的 GORM 实现
type GormLevelRepository struct {
	db *gorm.DB
}

// NewGormLevelRepository 创建 GormLevelRepository 实例
func NewGormLevelRepository(db *gorm.DB) *GormLevelRepository {
	if db == nil {
		panic("database connection cannot be nil for GormLevelRepository")
	}
	return &GormLevelRepository{db: db}
}

func (r *GormLevelRepository) FindByID(ctx context.Context, id uint) (*domain.Level, error) {
	var level domain.Level
	err := r.db.WithContext(ctx).First(&level, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLevelNotFound
		}
		return nil, fmt.Errorf("gorm: find level by id %d: %w", id, err)
	}
	return &level, nil
}

func (r *GormLevelRepository) FindAll(ctx context.Context) ([]domain.Level, error) {
	levels := make([]domain.Level, 0)
	if err := r.db.WithContext(ctx).Order("id asc").Find(&levels).Error; err != nil {
		return nil, fmt.Errorf("gorm: find all levels: %w", err)
	}
	return levels, nil
}

func (r *GormLevelRepository) FindByRoomID(ctx context.Context, roomID uint) ([]domain.Level, error) {
	levels := make([]domain.Level, 0)
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("id asc").Find(&levels).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find levels by room %d: %w", roomID, err)
	}
	return levels, nil
}

// FindByLevelOrder 同一序号有多条记录时取 ID 最小的
func (r *GormLevelRepository) FindByLevelOrder(ctx context.Context, order int) (*domain.Level, error) {
	var level domain.Level
	err := r.db.WithContext(ctx).Where("level_order = ?", order).Order("id asc").First(&level).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLevelNotFound
		}
		return nil, fmt.Errorf("gorm: find level by order %d: %w", order, err)
	}
	return &level, nil
}

func (r *GormLevelRepository) Save(ctx context.Context, level *domain.Level) error {
	if err := r.db.WithContext(ctx).Save(level).Error; err != nil {
		return fmt.Errorf("gorm: save level (id: %d, order: %d): %w", level.ID, level.LevelOrder, err)
	}
	return nil
}

func (r *GormLevelRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Level{}, id).Error; err != nil {
		return fmt.Errorf("gorm: delete level %d: %w", id, err)
	}
	return nil
}

func (r *GormLevelRepository) ListImageURLs(ctx context.Context) ([]string, error) {
	urls := make([]string, 0)
	if err := r.db.WithContext(ctx).Model(&domain.Level{}).Pluck("image_url", &urls).Error; err != nil {
		return nil, fmt.Errorf("gorm: list level image urls: %w", err)
	}
	return urls, nil
}
