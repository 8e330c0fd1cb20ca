package websocket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"drag-drop-game/internal/domain"
	"drag-drop-game/internal/dto"
	wsHandler "drag-drop-game/internal/handler/websocket"
	"drag-drop-game/internal/hub"
	"drag-drop-game/internal/repository"
	"drag-drop-game/internal/repository/mocks"
	"drag-drop-game/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type chanSubscriber chan domain.RoomStatusEvent

func (c chanSubscriber) SubscribeRoomStatus(ctx context.Context) (<-chan domain.RoomStatusEvent, error) {
	return c, nil
}

func newServer(t *testing.T) (*httptest.Server, *hub.Hub, *mocks.RoomRepository, chanSubscriber) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	roomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(roomRepo, new(mocks.PlayerRepository), nil)
	events := make(chanSubscriber, 4)
	h := hub.NewHub(events)

	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)

	router := gin.New()
	router.GET("/ws/rooms/:id/status", wsHandler.NewWebSocketHandler(h, roomService, "").HandleRoomStatus)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, h, roomRepo, events
}

func dial(t *testing.T, srv *httptest.Server, roomID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/rooms/" + roomID + "/status"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func TestHandleRoomStatus_InitialAndUpdates(t *testing.T) {
	srv, h, roomRepo, events := newServer(t)
	roomRepo.On("FindByID", mock.Anything, uint(1)).Return(&domain.Room{ID: 1}, nil).Twice()

	conn := dial(t, srv, "1")

	var msg dto.StatusMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, dto.StatusMessage{Type: "status", RoomID: 1, Status: domain.RoomStatusWaiting}, msg)
	assert.Equal(t, 1, h.WatcherCount(1), "初始状态在注册之后发送")

	events <- domain.RoomStatusEvent{RoomID: 1, Status: domain.RoomStatusPlaying}

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, domain.RoomStatusPlaying, msg.Status)
	roomRepo.AssertExpectations(t)
}

func TestHandleRoomStatus_ChangeBeforeRegisterIsNotLost(t *testing.T) {
	srv, _, roomRepo, _ := newServer(t)
	// 存在性检查时还是 WAITING，注册前房间已开始，对应事件没有观察者
	roomRepo.On("FindByID", mock.Anything, uint(2)).Return(&domain.Room{ID: 2, Status: domain.RoomStatusWaiting}, nil).Once()
	roomRepo.On("FindByID", mock.Anything, uint(2)).Return(&domain.Room{ID: 2, Status: domain.RoomStatusPlaying}, nil).Once()

	conn := dial(t, srv, "2")

	var msg dto.StatusMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, domain.RoomStatusPlaying, msg.Status)
}

func TestHandleRoomStatus_RoomNotFound(t *testing.T) {
	srv, _, roomRepo, _ := newServer(t)
	roomRepo.On("FindByID", mock.Anything, uint(9)).Return(nil, repository.ErrRoomNotFound).Once()

	resp, err := http.Get(srv.URL + "/ws/rooms/9/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
