package domain

import "time"

// RoomStatus 表示房间的游戏阶段。
type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "WAITING"
	RoomStatusPlaying  RoomStatus = "PLAYING"
	RoomStatusFinished RoomStatus = "FINISHED"
)

// Room 表示一个游戏房间，玩家在其中按顺序完成关卡。
type Room struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:191;not null" json:"name"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	IsActive  bool       `gorm:"not null;default:true" json:"isActive"`
	Status    RoomStatus `gorm:"size:20" json:"status"` // 旧数据可能为空
}

// CurrentStatus 返回房间状态，空值按 WAITING 处理。
func (r *Room) CurrentStatus() RoomStatus {
	if r.Status == "" {
		return RoomStatusWaiting
	}
	return r.Status
}

// Joinable 报告房间是否还接受新玩家。
func (r *Room) Joinable() bool {
	s := r.CurrentStatus()
	return s != RoomStatusPlaying && s != RoomStatusFinished
}

// RoomStatusEvent 是房间状态变化的通知消息。
type RoomStatusEvent struct {
	RoomID uint       `json:"roomId"`
	Status RoomStatus `json:"status"`
}
