package dto

import "drag-drop-game/internal/domain"

// StatusMessage 是通过 WebSocket 推送给观察者的房间状态
type StatusMessage struct {
	Type   string            `json:"type"` // 固定为 "status"
	RoomID uint              `json:"roomId"`
	Status domain.RoomStatus `json:"status"`
}

// NewStatusMessage 由状态事件构造推送消息
func NewStatusMessage(event domain.RoomStatusEvent) StatusMessage {
	return StatusMessage{Type: "status", RoomID: event.RoomID, Status: event.Status}
}
