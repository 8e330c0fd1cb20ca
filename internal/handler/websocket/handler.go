package websocket

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"drag-drop-game/internal/domain"
	"drag-drop-game/internal/hub"
	"drag-drop-game/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocketHandler 负责把房间状态观察请求升级为 WebSocket 并注册到 Hub
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	hub         *hub.Hub
	roomService *service.RoomService
}

// NewWebSocketHandler 创建 WebSocketHandler 实例。allowedOrigin 为空时不检查来源。
func NewWebSocketHandler(h *hub.Hub, roomService *service.RoomService, allowedOrigin string) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if roomService == nil {
		panic("RoomService cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  512,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return allowedOrigin == "" || origin == "" || origin == allowedOrigin
		},
	}

	return &WebSocketHandler{
		upgrader:    upgrader,
		hub:         h,
		roomService: roomService,
	}
}

// HandleRoomStatus 处理 GET /ws/rooms/:id/status。
// 连接注册后先推送当前状态，之后推送每一次状态变化。
func (h *WebSocketHandler) HandleRoomStatus(c *gin.Context) {
	roomIDStr := c.Param("id")
	roomIDUint64, err := strconv.ParseUint(roomIDStr, 10, 64)
	if err != nil {
		logrus.WithError(err).Warnf("WS Handler: Invalid room ID format: %s", roomIDStr)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID format"})
		return
	}
	roomID := uint(roomIDUint64)
	logCtx := logrus.WithField("room_id", roomID)

	// 升级前确认房间存在
	if _, err := h.roomService.GetStatus(c.Request.Context(), roomID); err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
		}
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写回了 HTTP 错误
		logCtx.WithError(err).Warn("WS Handler: Failed to upgrade connection")
		return
	}

	// 初始状态由 Hub 在注册之后读取，检查和注册之间的状态变化不会丢失
	client := hub.NewClient(h.hub, conn, roomID)
	snapshot := func(ctx context.Context) (domain.RoomStatus, error) {
		return h.roomService.GetStatus(ctx, roomID)
	}
	if !h.hub.QueueMessage(hub.HubMessage{Type: "register", RoomID: roomID, Client: client, Snapshot: snapshot}) {
		logCtx.Error("WS Handler: Hub message channel full, failed to register client")
		conn.Close()
		return
	}

	go client.Run()
	logCtx.Info("WS Handler: status watcher connected")
}
