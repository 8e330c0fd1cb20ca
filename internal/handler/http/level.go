package http

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"drag-drop-game/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LevelHandler 处理 /api/management/level 下的关卡管理请求（需要 ADMIN 或 ROOT 会话）
type LevelHandler struct {
	levelService *service.LevelService
}

// NewLevelHandler 创建 LevelHandler 实例
func NewLevelHandler(levelService *service.LevelService) *LevelHandler {
	return &LevelHandler{levelService: levelService}
}

// CreateLevel POST /api/management/level (multipart)
func (h *LevelHandler) CreateLevel(c *gin.Context) {
	input, file, ok := bindLevelForm(c)
	if !ok {
		return
	}
	if file == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: image is required")
		return
	}
	defer file.Close()

	level, err := h.levelService.CreateLevel(c.Request.Context(), input)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, level)
}

// UpdateLevel PUT /api/management/level/:id (multipart, image 可选)
func (h *LevelHandler) UpdateLevel(c *gin.Context) {
	levelID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	input, file, ok := bindLevelForm(c)
	if !ok {
		return
	}
	if file != nil {
		defer file.Close()
	}

	level, err := h.levelService.UpdateLevel(c.Request.Context(), levelID, input)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, level)
}

// DeleteLevel DELETE /api/management/level/:id
func (h *LevelHandler) DeleteLevel(c *gin.Context) {
	levelID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.levelService.DeleteLevel(c.Request.Context(), levelID); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ListLevels GET /api/management/level?roomId=
func (h *LevelHandler) ListLevels(c *gin.Context) {
	listLevels(c, h.levelService)
}

// GetLevel GET /api/management/level/:id
func (h *LevelHandler) GetLevel(c *gin.Context) {
	levelID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	level, err := h.levelService.GetLevel(c.Request.Context(), levelID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, level)
}

func listLevels(c *gin.Context, levelService *service.LevelService) {
	roomID, err := optionalUint(c.Query("roomId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: roomId must be a number")
		return
	}
	levels, err := levelService.ListLevels(c.Request.Context(), roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, levels)
}

// bindLevelForm 解析关卡表单。返回的 file 不为 nil 时由调用方关闭；空文件视为未上传。
func bindLevelForm(c *gin.Context) (service.LevelInput, multipart.File, bool) {
	var input service.LevelInput

	answer, hasAnswer := c.GetPostForm("answer")
	levelOrder, err := strconv.Atoi(c.PostForm("levelOrder"))
	if !hasAnswer || answer == "" || err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: answer and levelOrder are required")
		return input, nil, false
	}
	roomID, err := optionalUint(c.PostForm("roomId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: roomId must be a number")
		return input, nil, false
	}
	timeLimit, err := optionalInt(c.PostForm("timeLimit"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: timeLimit must be a number")
		return input, nil, false
	}

	input = service.LevelInput{
		Answer:     answer,
		Hint:       c.PostForm("hint"),
		LevelOrder: levelOrder,
		RoomID:     roomID,
		TimeLimit:  timeLimit,
	}

	header, err := c.FormFile("image")
	if err != nil || header.Size == 0 {
		return input, nil, true
	}
	file, err := header.Open()
	if err != nil {
		logrus.WithError(err).Error("Handler.bindLevelForm: failed to open uploaded file")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
		return input, nil, false
	}
	input.Image = &service.ImageUpload{Filename: header.Filename, Content: file}
	return input, file, true
}
