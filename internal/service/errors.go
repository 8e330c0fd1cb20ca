package service

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrLevelNotFound  = errors.New("level not found")
	ErrUserNotFound   = errors.New("user not found")

	// 以下是预期内的业务结果，HTTP 层以 {"error": ...} 返回
	ErrRoomNotJoinable    = errors.New("room is already playing or finished")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotApproved = errors.New("account not yet approved by root")
	ErrUnauthorized       = errors.New("unauthorized")

	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
)
