package repository

import (
	"context"

	"drag-drop-game/internal/domain"
)

// UserRepository 定义了管理员账号的存储和检索操作。
type UserRepository interface {
	// FindByUsername 根据用户名查找用户，不存在时返回 ErrUserNotFound。
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)

	// FindUnapproved 返回尚未审核通过的账号。
	FindUnapproved(ctx context.Context) ([]domain.User, error)

	// Save 保存用户信息，用户名冲突时返回 ErrDuplicateEntry。
	Save(ctx context.Context, user *domain.User) error

	Delete(ctx context.Context, id uint) error
}
