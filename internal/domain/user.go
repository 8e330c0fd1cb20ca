package domain

import "time"

// Role 是会话身份的角色。
type Role string

const (
	RoleRoot  Role = "ROOT"
	RoleAdmin Role = "ADMIN"
)

// User 表示一个自助注册的管理员账号，需 ROOT 审核后才能登录。
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null" json:"username"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt 哈希
	Role       Role      `gorm:"size:20;not null;default:ADMIN" json:"role"`
	IsApproved bool      `gorm:"not null;default:false" json:"isApproved"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
