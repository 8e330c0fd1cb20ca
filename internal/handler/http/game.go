package http

import (
	"net/http"
	"strconv"

	"drag-drop-game/internal/service"

	"github.com/gin-gonic/gin"
)

// GameHandler 提供玩家游戏时读取关卡的接口
type GameHandler struct {
	levelService *service.LevelService
}

func NewGameHandler(levelService *service.LevelService) *GameHandler {
	return &GameHandler{levelService: levelService}
}

// GetLevel GET /api/game/level/:order，选项每次请求重新打乱
func (h *GameHandler) GetLevel(c *gin.Context) {
	order, err := strconv.Atoi(c.Param("order"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid level order")
		return
	}
	level, err := h.levelService.GetLevelForPlay(c.Request.Context(), order)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, level)
}

// ListLevels GET /api/game/levels?roomId=
func (h *GameHandler) ListLevels(c *gin.Context) {
	listLevels(c, h.levelService)
}
