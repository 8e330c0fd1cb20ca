package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config 结构体用于存储从环境变量或文件加载的配置
type Config struct {
	DBUser          string
	DBPassword      string
	DBHost          string
	DBPort          string
	DBName          string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	KeyPrefix       string // Redis Key 前缀
	SessionSecret   string
	SessionTTL      time.Duration
	RootUsername    string
	RootPassword    string
	UploadDir       string
	ServerPort      string
	LogLevel        string
	AppEnv          string // development/production
	CORSOrigin      string
	RateLimitMax    int
	RateLimitWindow time.Duration
	SweepSchedule   string // asynq cron 表达式
	SweepGrace      time.Duration
}

// IsProduction 报告是否运行在生产环境
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	// 优先加载 .env 文件 (如果存在)
	_ = godotenv.Load()

	cfg := &Config{
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        envOr("DB_HOST", "127.0.0.1"),
		DBPort:        envOr("DB_PORT", "3306"),
		DBName:        envOr("DB_NAME", "dragdrop_db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KeyPrefix:     envOr("REDIS_KEY_PREFIX", "dd:"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		RootUsername:  envOr("ROOT_USERNAME", "root"),
		RootPassword:  os.Getenv("ROOT_PASSWORD"),
		UploadDir:     envOr("UPLOAD_DIR", "uploads"),
		ServerPort:    envOr("SERVER_PORT", "8080"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		AppEnv:        envOr("APP_ENV", "development"),
		CORSOrigin:    envOr("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
		SweepSchedule: envOr("BLOB_SWEEP_SCHEDULE", "@every 30m"),
	}

	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB")) // 忽略错误，默认为 0
	cfg.SessionTTL = time.Duration(envInt("SESSION_TTL_HOURS", 24)) * time.Hour
	cfg.RateLimitMax = envInt("RATE_LIMIT_MAX", 100)
	cfg.RateLimitWindow = time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 1)) * time.Second
	cfg.SweepGrace = time.Duration(envInt("BLOB_SWEEP_GRACE_MINUTES", 10)) * time.Minute

	if cfg.DBUser == "" {
		return nil, fmt.Errorf("environment variable DB_USER must be set")
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("environment variable SESSION_SECRET must be set")
	}
	if cfg.RootPassword == "" {
		return nil, fmt.Errorf("environment variable ROOT_PASSWORD must be set")
	}

	// 验证日志级别
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt 读取正整数，缺失或非法时返回默认值
func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
