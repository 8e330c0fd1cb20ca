package dto

// CredentialsRequest 是注册和登录共用的请求体
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 是登录成功的响应，token 同时写入 SESSION cookie
type LoginResponse struct {
	Success  bool   `json:"success"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Token    string `json:"token"`
}
