package hub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"drag-drop-game/internal/domain"
	"drag-drop-game/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSubscriber 把测试写入的事件交给 Hub
type fakeSubscriber struct {
	events chan domain.RoomStatusEvent
	err    error
}

func (f *fakeSubscriber) SubscribeRoomStatus(ctx context.Context) (<-chan domain.RoomStatusEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func startHub(t *testing.T, sub *fakeSubscriber) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(sub)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h, cancel
}

func register(t *testing.T, h *Hub, roomID uint) *Client {
	t.Helper()
	c := NewClient(h, nil, roomID)
	require.True(t, h.QueueMessage(HubMessage{Type: "register", RoomID: roomID, Client: c}))
	require.Eventually(t, func() bool { return h.WatcherCount(roomID) > 0 }, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) dto.StatusMessage {
	t.Helper()
	select {
	case raw, ok := <-c.send:
		require.True(t, ok, "send 通道不应被关闭")
		var msg dto.StatusMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for status message")
		return dto.StatusMessage{}
	}
}

func TestHub_BroadcastsOnlyToRoom(t *testing.T) {
	sub := &fakeSubscriber{events: make(chan domain.RoomStatusEvent, 4)}
	h, _ := startHub(t, sub)

	watcher := register(t, h, 1)
	other := register(t, h, 2)

	sub.events <- domain.RoomStatusEvent{RoomID: 1, Status: domain.RoomStatusPlaying}

	msg := receive(t, watcher)
	assert.Equal(t, dto.StatusMessage{Type: "status", RoomID: 1, Status: domain.RoomStatusPlaying}, msg)

	select {
	case <-other.send:
		t.Fatal("其他房间的观察者不应收到消息")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	sub := &fakeSubscriber{events: make(chan domain.RoomStatusEvent)}
	h, _ := startHub(t, sub)

	c := register(t, h, 3)
	require.True(t, h.QueueMessage(HubMessage{Type: "unregister", RoomID: 3, Client: c}))

	require.Eventually(t, func() bool { return h.WatcherCount(3) == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-c.send
	assert.False(t, ok)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	sub := &fakeSubscriber{events: make(chan domain.RoomStatusEvent)}
	h, cancel := startHub(t, sub)

	c := register(t, h, 4)
	cancel()

	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed on shutdown")
	}
}

func TestHub_SubscribeFailureStillRegisters(t *testing.T) {
	h, _ := startHub(t, &fakeSubscriber{err: errors.New("redis down")})
	register(t, h, 5)
	assert.Equal(t, 1, h.WatcherCount(5))
}

func TestHub_SnapshotSentAfterRegisterBeforeEvents(t *testing.T) {
	sub := &fakeSubscriber{events: make(chan domain.RoomStatusEvent, 4)}
	h, _ := startHub(t, sub)

	c := NewClient(h, nil, 6)
	snapshot := func(ctx context.Context) (domain.RoomStatus, error) {
		// 读取时已经注册，读到的是注册之后的最新状态
		assert.Equal(t, 1, h.WatcherCount(6))
		return domain.RoomStatusPlaying, nil
	}
	require.True(t, h.QueueMessage(HubMessage{Type: "register", RoomID: 6, Client: c, Snapshot: snapshot}))

	assert.Equal(t, domain.RoomStatusPlaying, receive(t, c).Status)

	sub.events <- domain.RoomStatusEvent{RoomID: 6, Status: domain.RoomStatusFinished}
	assert.Equal(t, domain.RoomStatusFinished, receive(t, c).Status)
}

func TestHub_SnapshotFailureStillRegisters(t *testing.T) {
	sub := &fakeSubscriber{events: make(chan domain.RoomStatusEvent, 1)}
	h, _ := startHub(t, sub)

	c := NewClient(h, nil, 7)
	failing := func(ctx context.Context) (domain.RoomStatus, error) { return "", errors.New("db down") }
	require.True(t, h.QueueMessage(HubMessage{Type: "register", RoomID: 7, Client: c, Snapshot: failing}))
	require.Eventually(t, func() bool { return h.WatcherCount(7) == 1 }, time.Second, 5*time.Millisecond)

	sub.events <- domain.RoomStatusEvent{RoomID: 7, Status: domain.RoomStatusPlaying}
	assert.Equal(t, domain.RoomStatusPlaying, receive(t, c).Status)
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	c := NewClient(nil, nil, 1)
	for i := 0; i < cap(c.send); i++ {
		require.True(t, c.trySend([]byte("x")))
	}
	assert.False(t, c.trySend([]byte("overflow")), "队列满时丢弃")
}
