package http

import (
	"errors"
	"net/http"

	"drag-drop-game/internal/dto"
	"drag-drop-game/internal/middleware"
	"drag-drop-game/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler 封装了认证和账号管理相关的 HTTP 处理逻辑
type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool // 生产环境下 cookie 只走 HTTPS
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// Register 处理管理员注册，成功后等待 ROOT 审核
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Register: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: username and password are required")
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		HandleServiceError(c, err)
		return
	}
	MessageResponse(c, http.StatusOK, "Registration successful. Waiting for Root approval.")
}

// Login 校验凭据，成功后同时在响应体和 SESSION cookie 中返回会话 token
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: username and password are required")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, result.Token, int(h.authService.SessionTTL().Seconds()), "/", "", h.secureCookie, true)
	SuccessResponse(c, http.StatusOK, dto.LoginResponse{
		Success:  true,
		Role:     string(result.Session.Role),
		Username: result.Session.Username,
		Token:    result.Token,
	})
}

// Logout 删除服务端会话并清除 cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.ExtractToken(c)); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.secureCookie, true)
	MessageResponse(c, http.StatusOK, "Logged out")
}

// Me 返回当前会话身份，匿名时 user 为 null
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if session == nil {
		SuccessResponse(c, http.StatusOK, gin.H{"user": nil})
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"user": session.Username, "role": session.Role})
}

// ListUsers GET /api/auth/users，非 ROOT 返回 403
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		handleRootOnlyError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, users)
}

// ListPendingUsers GET /api/auth/pending
func (h *AuthHandler) ListPendingUsers(c *gin.Context) {
	users, err := h.authService.ListPendingUsers(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		handleRootOnlyError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, users)
}

// DeleteUser DELETE /api/auth/user/:id
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	userID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.authService.DeleteUser(c.Request.Context(), middleware.CurrentSession(c), userID); err != nil {
		handleRootOnlyError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ApproveUser POST /api/auth/approve/:id，非 ROOT 时返回 200 + {"error":"Unauthorized"}
func (h *AuthHandler) ApproveUser(c *gin.Context) {
	userID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.authService.ApproveUser(c.Request.Context(), middleware.CurrentSession(c), userID); err != nil {
		HandleServiceError(c, err)
		return
	}
	MessageResponse(c, http.StatusOK, "User approved")
}

// handleRootOnlyError 列表和删除接口在非 ROOT 时返回 403
func handleRootOnlyError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUnauthorized) {
		ErrorResponse(c, http.StatusForbidden, "Unauthorized")
		return
	}
	HandleServiceError(c, err)
}
