package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drag-drop-game/internal/domain"
	httpHandler "drag-drop-game/internal/handler/http"
	wsHandler "drag-drop-game/internal/handler/websocket"
	"drag-drop-game/internal/hub"
	"drag-drop-game/internal/repository/mocks"
	"drag-drop-game/internal/service"
)

type anonymousResolver struct{}

func (anonymousResolver) ResolveSession(context.Context, string) (*domain.Session, error) {
	return nil, service.ErrUnauthorized
}

type noEvents struct{}

func (noEvents) SubscribeRoomStatus(context.Context) (<-chan domain.RoomStatusEvent, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	uploadDir := t.TempDir()
	cfg := &Config{
		KeyPrefix:       "test:",
		UploadDir:       uploadDir,
		CORSOrigin:      "http://localhost:3000",
		RateLimitMax:    100,
		RateLimitWindow: time.Second,
	}

	authService, err := service.NewAuthService(new(mocks.UserRepository), new(mocks.SessionRepository), service.AuthConfig{
		RootUsername: "root", RootPassword: "pw", Secret: "secret",
	})
	require.NoError(t, err)
	roomService := service.NewRoomService(new(mocks.RoomRepository), new(mocks.PlayerRepository), nil)
	levelService := service.NewLevelService(new(mocks.LevelRepository), new(mocks.BlobStore))

	log := logrus.New()
	log.SetOutput(os.Stderr)
	router := newRouter(routerDeps{
		cfg:          cfg,
		log:          log,
		redisClient:  client,
		sessions:     anonymousResolver{},
		authHandler:  httpHandler.NewAuthHandler(authService, false),
		roomHandler:  httpHandler.NewRoomHandler(roomService),
		levelHandler: httpHandler.NewLevelHandler(levelService),
		gameHandler:  httpHandler.NewGameHandler(levelService),
		wsHandler:    wsHandler.NewWebSocketHandler(hub.NewHub(noEvents{}), roomService, cfg.CORSOrigin),
	})
	return router, uploadDir
}

func TestRouter_Ping(t *testing.T) {
	router, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Preflight(t *testing.T) {
	router, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/rooms/all", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_ServesUploads(t *testing.T) {
	router, dir := newTestRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc_cat.png"), []byte("png"), 0o644))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/abc_cat.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}

func TestRouter_ManagementRequiresSession(t *testing.T) {
	router, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/management/level/1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoggerMiddleware_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(os.Stderr)
	hook := &levelHook{}
	log.AddHook(hook)

	router := gin.New()
	router.Use(LoggerMiddleware(log))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/bad", "/boom"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, []logrus.Level{logrus.InfoLevel, logrus.WarnLevel, logrus.ErrorLevel}, hook.levels)
}

type levelHook struct{ levels []logrus.Level }

func (h *levelHook) Levels() []logrus.Level { return logrus.AllLevels }
func (h *levelHook) Fire(e *logrus.Entry) error {
	h.levels = append(h.levels, e.Level)
	return nil
}
