package domain

import "time"

// Session 是登录后保存在服务端的身份信息，按不透明的 ID 查找。
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsRoot 报告会话是否拥有 ROOT 角色，nil 会话视为匿名。
func (s *Session) IsRoot() bool {
	return s != nil && s.Role == RoleRoot
}
