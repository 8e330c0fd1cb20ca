package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "drag-drop-game/internal/handler/http"
	wsHandler "drag-drop-game/internal/handler/websocket"
	"drag-drop-game/internal/hub"
	gormpersistence "drag-drop-game/internal/infra/persistence/gorm"
	"drag-drop-game/internal/infra/setup"
	redisstate "drag-drop-game/internal/infra/state/redis"
	localstorage "drag-drop-game/internal/infra/storage/local"
	"drag-drop-game/internal/service"
	"drag-drop-game/internal/tasks"
	"drag-drop-game/internal/worker"
)

// App 结构体包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqServer *worker.WorkerServer
	Hub         *hub.Hub
	HttpServer  *http.Server

	redisClientOpt asynq.RedisClientOpt
	scheduler      *asynq.Scheduler
	hubCancel      context.CancelFunc
}

// NewApp 创建并初始化应用的所有组件
func NewApp() (*App, error) {
	// 1. 加载配置
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	// 2. 初始化 Logger，同时设置全局 logrus，Service 层使用全局 logger
	log := newLogger(cfg)
	log.Info("Configuration loaded successfully")

	// 3. 初始化基础设施
	log.Info("Initializing infrastructure...")
	db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database initialized and migrated")

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	log.Info("Redis client initialized")

	blobStore, err := localstorage.NewLocalBlobStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init upload dir: %w", err)
	}
	log.WithField("dir", blobStore.Dir()).Info("Blob store initialized")

	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	// 4. 初始化 Repositories
	userRepo := gormpersistence.NewGormUserRepository(db)
	roomRepo := gormpersistence.NewGormRoomRepository(db)
	playerRepo := gormpersistence.NewGormPlayerRepository(db)
	levelRepo := gormpersistence.NewGormLevelRepository(db)
	sessionRepo := redisstate.NewRedisSessionRepository(redisClient, cfg.KeyPrefix)
	statusChannel := redisstate.NewRedisStatusChannel(redisClient, cfg.KeyPrefix)
	log.Info("Repositories initialized")

	// 5. 初始化 Services
	authService, err := service.NewAuthService(userRepo, sessionRepo, service.AuthConfig{
		RootUsername: cfg.RootUsername,
		RootPassword: cfg.RootPassword,
		Secret:       cfg.SessionSecret,
		SessionTTL:   cfg.SessionTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AuthService: %w", err)
	}
	roomService := service.NewRoomService(roomRepo, playerRepo, statusChannel)
	levelService := service.NewLevelService(levelRepo, blobStore)
	log.Info("Services initialized")

	// 6. Hub 与 Worker
	hubInstance := hub.NewHub(statusChannel)
	workerServer := worker.NewWorkerServer(redisClientOpt, levelService, log)

	// 7. 初始化 Gin Engine 和路由
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := newRouter(routerDeps{
		cfg:          cfg,
		log:          log,
		redisClient:  redisClient,
		sessions:     authService,
		authHandler:  httpHandler.NewAuthHandler(authService, cfg.IsProduction()),
		roomHandler:  httpHandler.NewRoomHandler(roomService),
		levelHandler: httpHandler.NewLevelHandler(levelService),
		gameHandler:  httpHandler.NewGameHandler(levelService),
		wsHandler:    wsHandler.NewWebSocketHandler(hubInstance, roomService, cfg.CORSOrigin),
	})
	log.Info("Router setup complete")

	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		Config:         cfg,
		Log:            log,
		DB:             db,
		RedisClient:    redisClient,
		AsynqServer:    workerServer,
		Hub:            hubInstance,
		HttpServer:     httpServer,
		redisClientOpt: redisClientOpt,
	}, nil
}

func newLogger(cfg *Config) *logrus.Logger {
	log := logrus.StandardLogger()
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel) // cfg.LogLevel 已被 LoadConfig 验证
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	log.Infof("Logger initialized (Level: %s, Format: %T)", logLevel.String(), log.Formatter)
	return log
}

// Start 启动应用的所有后台 Goroutine 和 HTTP 服务器
func (a *App) Start() {
	hubCtx, cancel := context.WithCancel(context.Background())
	a.hubCancel = cancel
	go a.Hub.Run(hubCtx)
	a.Log.Info("Hub routine started")

	go a.AsynqServer.Start()
	a.Log.Info("Asynq worker server routine started")

	a.registerPeriodicTasks()

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// registerPeriodicTasks 注册孤儿文件清理任务。多个实例会各自注册，任务本身是幂等的。
func (a *App) registerPeriodicTasks() {
	scheduler := asynq.NewScheduler(a.redisClientOpt, &asynq.SchedulerOpts{})

	payload, err := tasks.NewBlobSweepPayload(a.Config.SweepGrace)
	if err != nil {
		a.Log.Errorf("Failed to create blob sweep task payload: %v", err)
		return
	}
	task := asynq.NewTask(tasks.TypeBlobSweep, payload)

	entryID, err := scheduler.Register(a.Config.SweepSchedule, task, asynq.Queue("low"), asynq.MaxRetry(0))
	if err != nil {
		a.Log.Errorf("Could not register blob sweep task: %v", err)
		return
	}
	a.Log.Infof("Blob sweep task registered with schedule '%s' (EntryID: %s)", a.Config.SweepSchedule, entryID)

	if err := scheduler.Start(); err != nil {
		a.Log.Errorf("Asynq scheduler failed to start: %v", err)
		return
	}
	a.scheduler = scheduler
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	// 1. 先停止接收新请求
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	// 2. 停止 Hub，关闭所有观察连接
	if a.hubCancel != nil {
		a.hubCancel()
	}

	// 3. 停止 Scheduler 和 Worker
	if a.scheduler != nil {
		a.scheduler.Shutdown()
		a.Log.Info("Asynq scheduler stopped.")
	}
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}

	// 4. 关闭 Redis 连接
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		} else {
			a.Log.Info("Redis connection closed.")
		}
	}

	// 5. 关闭数据库连接池
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Log.Errorf("Error closing database connection: %v", err)
		}
	}

	a.Log.Info("Application shutdown complete.")
}
