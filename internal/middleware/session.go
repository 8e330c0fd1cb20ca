package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"drag-drop-game/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionCookieName 是保存会话 token 的 cookie 名称
const SessionCookieName = "SESSION"

const (
	sessionContextKey      = "session"
	sessionTokenContextKey = "session_token"
)

// SessionResolver 根据 token 找到服务端会话
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.Session, error)
}

// Session 返回一个 Gin 中间件，解析请求携带的会话并放入上下文。
// 依次尝试 SESSION cookie 和 Bearer token，第一个能解析的生效；都无效时按匿名处理，不会中断请求。
func Session(resolver SessionResolver) gin.HandlerFunc {
	if resolver == nil {
		panic("SessionResolver cannot be nil for Session middleware")
	}

	return func(c *gin.Context) {
		for _, token := range candidateTokens(c) {
			session, err := resolver.ResolveSession(c.Request.Context(), token)
			if err != nil {
				logrus.WithError(err).Debug("Session middleware: token did not resolve to a session")
				continue
			}
			c.Set(sessionContextKey, session)
			c.Set(sessionTokenContextKey, token)
			logrus.WithFields(logrus.Fields{"session_id": session.ID, "username": session.Username}).Debug("Session middleware: session resolved")
			break
		}
		c.Next()
	}
}

// RequireRole 要求当前会话拥有给定角色之一。匿名请求返回 401，角色不符返回 403。
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}
		logrus.WithFields(logrus.Fields{"username": session.Username, "role": session.Role}).Warn("RequireRole: role not allowed")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	}
}

// CurrentSession 返回 Session 中间件放入的会话，匿名时返回 nil。
func CurrentSession(c *gin.Context) *domain.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	session, _ := v.(*domain.Session)
	return session
}

// ExtractToken 返回 Session 中间件解析成功的 token。
// 没有解析成功时优先返回 SESSION cookie，其次是 "Authorization: Bearer <token>"。
func ExtractToken(c *gin.Context) string {
	if token := c.GetString(sessionTokenContextKey); token != "" {
		return token
	}
	if tokens := candidateTokens(c); len(tokens) > 0 {
		return tokens[0]
	}
	return ""
}

// candidateTokens 按 cookie、Bearer 的顺序收集请求携带的 token
func candidateTokens(c *gin.Context) []string {
	tokens := make([]string, 0, 2)
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		tokens = append(tokens, cookie)
	}
	if token, err := bearerToken(c.GetHeader("Authorization")); err == nil && (len(tokens) == 0 || tokens[0] != token) {
		tokens = append(tokens, token)
	}
	return tokens
}

var errMissingAuthHeader = errors.New("missing Authorization header")

var errMalformedAuthHeader = errors.New("malformed Authorization header")

func bearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errMissingAuthHeader
	}
	parts := strings.Split(authHeader, " ")
	// 使用 EqualFold 忽略 "Bearer" 的大小写
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errMalformedAuthHeader
	}
	return parts[1], nil
}
