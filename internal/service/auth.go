package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drag-drop-game/internal/domain"
	"drag-drop-game/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthConfig 是 AuthService 的配置
type AuthConfig struct {
	RootUsername string
	RootPassword string
	Secret       string        // 签名会话 token 的密钥
	SessionTTL   time.Duration // 会话过期时间
}

// AuthService 负责管理员注册、登录会话以及 ROOT 对账号的管理。
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	rootUser    string
	rootPass    string
	secret      []byte
	sessionTTL  time.Duration
}

// NewAuthService 创建 AuthService 实例。
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, cfg AuthConfig) (*AuthService, error) {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if sessionRepo == nil {
		panic("SessionRepository cannot be nil for AuthService")
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret cannot be empty")
	}
	if cfg.RootUsername == "" || cfg.RootPassword == "" {
		return nil, fmt.Errorf("root credentials cannot be empty")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour // 默认 24 小时
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		rootUser:    cfg.RootUsername,
		rootPass:    cfg.RootPassword,
		secret:      []byte(cfg.Secret),
		sessionTTL:  cfg.SessionTTL,
	}, nil
}

// LoginResult 是登录成功后的结果
type LoginResult struct {
	Token   string
	Session *domain.Session
}

// sessionClaims 是会话 token 中携带的声明
type sessionClaims struct {
	SessionID string      `json:"sid"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Register 创建一个待审核的 ADMIN 账号。
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	logCtx := logrus.WithField("username", username)

	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	// 先查一次，保存时的唯一索引兜底并发注册
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		logCtx.Info("Registration rejected: username already exists")
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Registration failed: error looking up username")
		return nil, ErrInternalServer
	}

	hashed, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	user := &domain.User{
		Username:   username,
		Password:   hashed,
		Role:       domain.RoleAdmin,
		IsApproved: false,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Info("Registration rejected: username already exists (repo error)")
			return nil, ErrUsernameTaken
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered, waiting for approval")
	return user, nil
}

// Login 校验凭据并建立会话。ROOT 凭据直接比对配置，不访问存储。
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	logCtx := logrus.WithField("username", username)

	if username == s.rootUser && password == s.rootPass {
		logCtx.Info("Root logged in")
		return s.openSession(ctx, username, domain.RoleRoot)
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: User not found")
			return nil, ErrInvalidCredentials
		}
		logCtx.WithError(err).Error("Login attempt failed: Error finding user")
		return nil, ErrInternalServer
	}
	if user == nil || !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: Invalid password")
		return nil, ErrInvalidCredentials
	}
	if !user.IsApproved {
		logCtx.Info("Login rejected: account not yet approved")
		return nil, ErrAccountNotApproved
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return s.openSession(ctx, user.Username, domain.RoleAdmin)
}

// Logout 删除会话。token 无效或会话已过期时视为已登出。
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, claims.SessionID); err != nil {
		logrus.WithField("session_id", claims.SessionID).WithError(err).Error("Failed to delete session")
		return ErrInternalServer
	}
	logrus.WithField("session_id", claims.SessionID).Info("Session closed")
	return nil
}

// ResolveSession 根据 token 找到会话，token 无效或会话不存在时返回 ErrUnauthorized。
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	session, err := s.sessionRepo.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		logrus.WithField("session_id", claims.SessionID).WithError(err).Error("Failed to load session")
		return nil, ErrInternalServer
	}
	return session, nil
}

// SessionTTL 返回会话有效期，供 cookie 使用
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// --- ROOT 专用操作 ---

func (s *AuthService) ListUsers(ctx context.Context, caller *domain.Session) ([]domain.User, error) {
	if !caller.IsRoot() {
		return nil, ErrUnauthorized
	}
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		return nil, ErrInternalServer
	}
	return users, nil
}

// ListPendingUsers 返回待审核账号
func (s *AuthService) ListPendingUsers(ctx context.Context, caller *domain.Session) ([]domain.User, error) {
	if !caller.IsRoot() {
		return nil, ErrUnauthorized
	}
	users, err := s.userRepo.FindUnapproved(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list pending users")
		return nil, ErrInternalServer
	}
	return users, nil
}

// ApproveUser 审核通过账号，之后该账号才能登录
func (s *AuthService) ApproveUser(ctx context.Context, caller *domain.Session, userID uint) error {
	logCtx := logrus.WithField("user_id", userID)
	if !caller.IsRoot() {
		logCtx.Warn("ApproveUser: caller is not root")
		return ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		logCtx.WithError(err).Error("ApproveUser: failed to load user")
		return ErrInternalServer
	}
	user.IsApproved = true
	if err := s.userRepo.Save(ctx, user); err != nil {
		logCtx.WithError(err).Error("ApproveUser: failed to save user")
		return ErrInternalServer
	}
	logCtx.WithField("username", user.Username).Info("User approved")
	return nil
}

// DeleteUser 删除账号。该账号已有的会话会在过期后自然失效。
func (s *AuthService) DeleteUser(ctx context.Context, caller *domain.Session, userID uint) error {
	logCtx := logrus.WithField("user_id", userID)
	if !caller.IsRoot() {
		logCtx.Warn("DeleteUser: caller is not root")
		return ErrUnauthorized
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		logCtx.WithError(err).Error("DeleteUser: failed to delete user")
		return ErrInternalServer
	}
	logCtx.Info("User deleted")
	return nil
}

// --- 私有辅助函数 ---

func (s *AuthService) openSession(ctx context.Context, username string, role domain.Role) (*LoginResult, error) {
	session := &domain.Session{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Save(ctx, session, s.sessionTTL); err != nil {
		logrus.WithField("username", username).WithError(err).Error("Failed to save session")
		return nil, ErrInternalServer
	}

	token, err := s.signToken(session)
	if err != nil {
		logrus.WithField("username", username).WithError(err).Error("Failed to sign session token")
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return nil, ErrInternalServer
	}
	return &LoginResult{Token: token, Session: session}, nil
}

func (s *AuthService) signToken(session *domain.Session) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		SessionID: session.ID,
		Role:      session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString string) (*sessionClaims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// hashPassword 使用 bcrypt 对密码进行哈希处理
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword 验证提供的密码是否与存储的哈希匹配
func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
