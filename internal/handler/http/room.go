package http

import (
	"net/http"
	"strconv"

	"drag-drop-game/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RoomHandler 封装了房间生命周期相关的 HTTP 处理逻辑，玩家无需登录
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 创建 RoomHandler 实例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoom POST /api/rooms/create?name=
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	name, ok := c.GetQuery("name")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: name is required")
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), name)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, room)
}

// ListRooms GET /api/rooms/all
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ListRooms(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, rooms)
}

// DeleteRoom DELETE /api/rooms/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.roomService.DeleteRoom(c.Request.Context(), roomID); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// StartGame POST /api/rooms/:id/start
func (h *RoomHandler) StartGame(c *gin.Context) {
	roomID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.roomService.StartGame(c.Request.Context(), roomID); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// GetStatus GET /api/rooms/:id/status
func (h *RoomHandler) GetStatus(c *gin.Context) {
	roomID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	status, err := h.roomService.GetStatus(c.Request.Context(), roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"status": status})
}

// JoinRoom POST /api/rooms/:id/join?playerName=
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	roomID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	playerName, ok := c.GetQuery("playerName")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: playerName is required")
		return
	}

	result, err := h.roomService.JoinRoom(c.Request.Context(), roomID, playerName)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, result)
}

// FinishGame POST /api/rooms/:id/finish?playerId=&score=
func (h *RoomHandler) FinishGame(c *gin.Context) {
	roomID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	logCtx := logrus.WithField("room_id", roomID)

	playerID, err := strconv.ParseUint(c.Query("playerId"), 10, 64)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.FinishGame: invalid playerId")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: playerId is required")
		return
	}
	score, err := strconv.Atoi(c.DefaultQuery("score", "0"))
	if err != nil {
		logCtx.WithError(err).Warn("Handler.FinishGame: invalid score")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: score must be an integer")
		return
	}

	if err := h.roomService.FinishGame(c.Request.Context(), roomID, uint(playerID), score); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ListPlayers GET /api/rooms/:id/players
func (h *RoomHandler) ListPlayers(c *gin.Context) {
	roomID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	players, err := h.roomService.ListPlayers(c.Request.Context(), roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, players)
}
