package bootstrap

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"drag-drop-game/internal/domain"
	httpHandler "drag-drop-game/internal/handler/http"
	wsHandler "drag-drop-game/internal/handler/websocket"
	localstorage "drag-drop-game/internal/infra/storage/local"
	"drag-drop-game/internal/middleware"
)

// routerDeps 汇总构建路由需要的组件
type routerDeps struct {
	cfg          *Config
	log          *logrus.Logger
	redisClient  redis.Cmdable
	sessions     middleware.SessionResolver
	authHandler  *httpHandler.AuthHandler
	roomHandler  *httpHandler.RoomHandler
	levelHandler *httpHandler.LevelHandler
	gameHandler  *httpHandler.GameHandler
	wsHandler    *wsHandler.WebSocketHandler
}

func newRouter(d routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(d.log))
	router.Use(corsMiddleware(d.cfg.CORSOrigin))
	router.Use(middleware.RateLimit(d.redisClient, d.cfg.KeyPrefix, d.cfg.RateLimitMax, d.cfg.RateLimitWindow))
	router.Use(middleware.Session(d.sessions))

	api := router.Group("/api")
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", d.authHandler.Register)
		authRoutes.POST("/login", d.authHandler.Login)
		authRoutes.POST("/logout", d.authHandler.Logout)
		authRoutes.GET("/me", d.authHandler.Me)
		// ROOT 校验在 Service 中完成，各接口对非 ROOT 的响应不同
		authRoutes.GET("/users", d.authHandler.ListUsers)
		authRoutes.GET("/pending", d.authHandler.ListPendingUsers)
		authRoutes.DELETE("/user/:id", d.authHandler.DeleteUser)
		authRoutes.POST("/approve/:id", d.authHandler.ApproveUser)
	}
	roomRoutes := api.Group("/rooms")
	{
		roomRoutes.POST("/create", d.roomHandler.CreateRoom)
		roomRoutes.GET("/all", d.roomHandler.ListRooms)
		roomRoutes.DELETE("/:id", d.roomHandler.DeleteRoom)
		roomRoutes.POST("/:id/start", d.roomHandler.StartGame)
		roomRoutes.GET("/:id/status", d.roomHandler.GetStatus)
		roomRoutes.POST("/:id/join", d.roomHandler.JoinRoom)
		roomRoutes.POST("/:id/finish", d.roomHandler.FinishGame)
		roomRoutes.GET("/:id/players", d.roomHandler.ListPlayers)
	}
	managementRoutes := api.Group("/management").Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleRoot))
	{
		managementRoutes.POST("/level", d.levelHandler.CreateLevel)
		managementRoutes.GET("/level", d.levelHandler.ListLevels)
		managementRoutes.GET("/level/:id", d.levelHandler.GetLevel)
		managementRoutes.PUT("/level/:id", d.levelHandler.UpdateLevel)
		managementRoutes.DELETE("/level/:id", d.levelHandler.DeleteLevel)
	}
	gameRoutes := api.Group("/game")
	{
		gameRoutes.GET("/level/:order", d.gameHandler.GetLevel)
		gameRoutes.GET("/levels", d.gameHandler.ListLevels)
	}

	router.GET("/ws/rooms/:id/status", d.wsHandler.HandleRoomStatus)
	router.Static(localstorage.URLPrefix, d.cfg.UploadDir)
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	return router
}

func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggerMiddleware 创建一个 Gin 中间件用于记录请求日志
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		switch {
		case errorMessage != "":
			entry.Error(errorMessage)
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}
