package domain

import "time"

// Player 是房间内的参与者，(RoomID, Name) 视为加入时的自然键。
// 这里没有唯一约束：同名并发加入可能产生两条记录。
type Player struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:191;not null;index:idx_player_room_name,priority:2" json:"name"`
	RoomID     uint      `gorm:"not null;index:idx_player_room_name,priority:1" json:"roomId"`
	IsFinished bool      `gorm:"not null;default:false" json:"isFinished"`
	Score      int       `gorm:"not null;default:0" json:"score"`
	JoinedAt   time.Time `gorm:"autoCreateTime" json:"joinedAt"`
}
