package http

import (
	"errors"
	"net/http"

	"drag-drop-game/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 预期内的业务结果以 200 + {"error": msg} 返回，前端据此展示提示
var domainOutcomeMessages = []struct {
	err     error
	message string
}{
	{service.ErrInvalidCredentials, "Invalid credentials"},
	{service.ErrAccountNotApproved, "Account not yet approved by Root."},
	{service.ErrRoomNotJoinable, "Room is already playing or finished"},
	{service.ErrUsernameTaken, "Username already exists"},
	{service.ErrUnauthorized, "Unauthorized"},
}

func HandleServiceError(c *gin.Context, err error) {
	for _, outcome := range domainOutcomeMessages {
		if errors.Is(err, outcome.err) {
			ErrorResponse(c, http.StatusOK, outcome.message)
			return
		}
	}

	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		ErrorResponse(c, http.StatusNotFound, "Room not found")
	case errors.Is(err, service.ErrPlayerNotFound):
		ErrorResponse(c, http.StatusNotFound, "Player not found")
	case errors.Is(err, service.ErrLevelNotFound):
		ErrorResponse(c, http.StatusNotFound, "Level not found")
	case errors.Is(err, service.ErrUserNotFound):
		ErrorResponse(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrInvalidInput):
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
	default:
		// Log the internal error for debugging
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
