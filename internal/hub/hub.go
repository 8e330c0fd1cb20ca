package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"drag-drop-game/internal/domain"
	"drag-drop-game/internal/dto"
	"drag-drop-game/internal/repository"

	"github.com/sirupsen/logrus"
)

// 包级别的 WebSocket 常量，供 hub 和 client 使用
const (
	// 注册时读取初始状态的超时
	snapshotTimeout = 2 * time.Second

	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// 观察者只发送控制帧，读上限可以很小
	maxMessageSize = 512
)

// StatusSnapshot 读取房间当前状态
type StatusSnapshot func(ctx context.Context) (domain.RoomStatus, error)

// HubMessage 定义了在 Hub 内部通道传递的消息类型
type HubMessage struct {
	Type   string // "register", "unregister"
	RoomID uint
	Client *Client

	// Snapshot 可选。注册完成后由 Hub 读取一次当前状态作为第一条消息，
	// 之后处理的状态事件都排在它后面。
	Snapshot StatusSnapshot
}

// Hub 维护按房间分组的状态观察者，并把订阅到的状态变化推送给对应房间的连接。
type Hub struct {
	messageChan chan HubMessage

	// map[roomID]map[*Client]bool
	rooms   map[uint]map[*Client]bool
	roomsMu sync.RWMutex

	subscriber repository.StatusSubscriber
}

// NewHub 创建并返回一个新的 Hub 实例
func NewHub(subscriber repository.StatusSubscriber) *Hub {
	if subscriber == nil {
		panic("StatusSubscriber cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		rooms:       make(map[uint]map[*Client]bool),
		subscriber:  subscriber,
	}
}

// Run 启动 Hub 的主事件循环，直到 ctx 结束。应在单独的 goroutine 中运行。
func (h *Hub) Run(ctx context.Context) {
	log := logrus.WithField("component", "hub")

	events, err := h.subscriber.SubscribeRoomStatus(ctx)
	if err != nil {
		// 订阅失败时仍处理注册/注销，客户端可以退回到轮询
		log.WithError(err).Error("Hub: failed to subscribe to room status events")
	}
	log.Info("Hub is running...")

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info("Hub is shutting down...")
			return
		case msg := <-h.messageChan:
			switch msg.Type {
			case "register":
				h.registerClient(msg.Client)
				if msg.Snapshot != nil {
					h.sendSnapshot(ctx, msg.Client, msg.Snapshot)
				}
			case "unregister":
				h.unregisterClient(msg.Client)
			default:
				log.Warnf("Hub: Received unknown message type: %s for room %d", msg.Type, msg.RoomID)
			}
		case event, ok := <-events:
			if !ok {
				// 订阅通道关闭后不再选中这个 case
				events = nil
				continue
			}
			h.broadcastStatus(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to register a nil client")
		return
	}
	roomID := client.RoomID()
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "action": "registerClient"})

	h.roomsMu.Lock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
		logCtx.Debug("Client list created for new room")
	}
	h.rooms[roomID][client] = true
	h.roomsMu.Unlock()
	logCtx.Info("Status watcher registered")
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to unregister a nil client")
		return
	}
	roomID := client.RoomID()
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "action": "unregisterClient"})

	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		logCtx.Debug("Room not found during client unregister")
		return
	}
	if _, ok := roomClients[client]; !ok {
		logCtx.Debug("Client not found in room during unregister")
		return
	}
	delete(roomClients, client)
	// 关闭 send 通道让 WritePump 退出；只有 Hub 会关闭它
	close(client.send)
	if len(roomClients) == 0 {
		delete(h.rooms, roomID)
	}
	logCtx.Info("Status watcher unregistered")
}

// sendSnapshot 在 Hub 循环内读取并推送当前状态，读取失败时客户端只会收到后续事件
func (h *Hub) sendSnapshot(ctx context.Context, client *Client, snapshot StatusSnapshot) {
	roomID := client.RoomID()
	logCtx := logrus.WithField("room_id", roomID)

	readCtx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()
	status, err := snapshot(readCtx)
	if err != nil {
		logCtx.WithError(err).Warn("Hub: failed to read initial room status")
		return
	}
	payload, err := json.Marshal(dto.NewStatusMessage(domain.RoomStatusEvent{RoomID: roomID, Status: status}))
	if err != nil {
		logCtx.WithError(err).Error("Hub: failed to marshal initial status message")
		return
	}
	if !client.trySend(payload) {
		logCtx.Warn("Client send channel full, initial status dropped")
	}
}

// broadcastStatus 把状态变化推送给该房间的所有观察者
func (h *Hub) broadcastStatus(event domain.RoomStatusEvent) {
	payload, err := json.Marshal(dto.NewStatusMessage(event))
	if err != nil {
		logrus.WithField("room_id", event.RoomID).WithError(err).Error("Hub: failed to marshal status message")
		return
	}

	h.roomsMu.RLock()
	roomClients := h.rooms[event.RoomID]
	clientsToSend := make([]*Client, 0, len(roomClients))
	for client := range roomClients {
		clientsToSend = append(clientsToSend, client)
	}
	h.roomsMu.RUnlock()

	logCtx := logrus.WithFields(logrus.Fields{"room_id": event.RoomID, "status": event.Status, "recipient_count": len(clientsToSend)})
	logCtx.Debug("Broadcasting room status")

	for _, client := range clientsToSend {
		if !client.trySend(payload) {
			logCtx.Warn("Client send channel full during broadcast, skipping this client")
		}
	}
}

// closeAll 在 Hub 停止时关闭所有客户端的 send 通道
func (h *Hub) closeAll() {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()
	for roomID, roomClients := range h.rooms {
		for client := range roomClients {
			close(client.send)
		}
		delete(h.rooms, roomID)
	}
}

// WatcherCount 返回某个房间当前的观察者数量
func (h *Hub) WatcherCount(roomID uint) int {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	return len(h.rooms[roomID])
}

// --- 公共方法 ---

// QueueMessage 将消息放入 Hub 的处理队列 (非阻塞)。
// 返回 false 表示队列已满。
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithFields(logrus.Fields{
			"message_type": msg.Type,
			"room_id":      msg.RoomID,
		}).Warn("Hub message channel full, dropping message")
		return false
	}
}
