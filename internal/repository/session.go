package repository

import (
	"context"
	"time"

	"drag-drop-game/internal/domain"
)

// SessionRepository 保存登录会话，条目在 ttl 后自动过期。
type SessionRepository interface {
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error

	// Get 查找会话，不存在或已过期时返回 ErrSessionNotFound。
	Get(ctx context.Context, id string) (*domain.Session, error)

	Delete(ctx context.Context, id string) error
}
