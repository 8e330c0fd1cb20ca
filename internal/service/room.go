package service

import (
	"context"
	"errors"

	"drag-drop-game/internal/domain"
	"drag-drop-game/internal/repository"

	"github.com/sirupsen/logrus"
)

// RoomService 负责房间的生命周期：创建、开始、玩家加入、完成以及全员完成检测。
// 状态迁移 WAITING -> PLAYING -> FINISHED 不做守卫，调用方按顺序调用；
// 加入和完成检测都是非事务的读-改-写，并发下的竞争是可接受的。
type RoomService struct {
	roomRepo   repository.RoomRepository
	playerRepo repository.PlayerRepository
	publisher  repository.StatusPublisher // 可选
}

// NewRoomService 创建 RoomService 实例。publisher 可以为 nil。
func NewRoomService(roomRepo repository.RoomRepository, playerRepo repository.PlayerRepository, publisher repository.StatusPublisher) *RoomService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomService")
	}
	if playerRepo == nil {
		panic("PlayerRepository cannot be nil for RoomService")
	}
	return &RoomService{
		roomRepo:   roomRepo,
		playerRepo: playerRepo,
		publisher:  publisher,
	}
}

// JoinResult 是加入房间的结果
type JoinResult struct {
	PlayerID uint              `json:"playerId"`
	Status   domain.RoomStatus `json:"status"`
}

// CreateRoom 创建一个状态为 WAITING 的新房间，名称不要求唯一。
func (s *RoomService) CreateRoom(ctx context.Context, name string) (*domain.Room, error) {
	logCtx := logrus.WithField("room_name", name)

	room := &domain.Room{
		Name:     name,
		IsActive: true,
		Status:   domain.RoomStatusWaiting,
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		logCtx.WithError(err).Error("Failed to save new room")
		return nil, ErrInternalServer
	}

	logCtx.WithField("room_id", room.ID).Info("Room created successfully")
	return room, nil
}

// ListRooms 返回全部房间
func (s *RoomService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.roomRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list rooms")
		return nil, ErrInternalServer
	}
	return rooms, nil
}

// DeleteRoom 删除房间。玩家记录不会被级联删除。
func (s *RoomService) DeleteRoom(ctx context.Context, roomID uint) error {
	logCtx := logrus.WithField("room_id", roomID)
	if err := s.roomRepo.Delete(ctx, roomID); err != nil {
		logCtx.WithError(err).Error("Failed to delete room")
		return ErrInternalServer
	}
	logCtx.Info("Room deleted")
	return nil
}

// StartGame 把房间状态置为 PLAYING，不检查当前状态。
func (s *RoomService) StartGame(ctx context.Context, roomID uint) error {
	logCtx := logrus.WithField("room_id", roomID)

	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.CurrentStatus() != domain.RoomStatusWaiting {
		logCtx.WithField("status", room.CurrentStatus()).Warn("Starting room that is not WAITING")
	}

	if err := s.roomRepo.UpdateStatus(ctx, room.ID, domain.RoomStatusPlaying); err != nil {
		logCtx.WithError(err).Error("Failed to save room status")
		return ErrInternalServer
	}
	room.Status = domain.RoomStatusPlaying

	logCtx.Info("Room started")
	s.publish(ctx, room.ID, room.Status)
	return nil
}

// GetStatus 返回房间当前状态，空值按 WAITING 处理。
func (s *RoomService) GetStatus(ctx context.Context, roomID uint) (domain.RoomStatus, error) {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return "", err
	}
	return room.CurrentStatus(), nil
}

// JoinRoom 让玩家加入房间。
// 房间已开始或已结束时返回 ErrRoomNotJoinable；同名玩家已存在时返回已有记录（刷新页面后重新加入）。
func (s *RoomService) JoinRoom(ctx context.Context, roomID uint, playerName string) (*JoinResult, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "player_name": playerName})

	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	status := room.CurrentStatus()
	if !room.Joinable() {
		logCtx.WithField("status", status).Info("Join rejected: room already playing or finished")
		return nil, ErrRoomNotJoinable
	}

	existing, err := s.playerRepo.FindByRoomIDAndName(ctx, roomID, playerName)
	if err == nil && existing != nil {
		logCtx.WithField("player_id", existing.ID).Info("Player re-joined room")
		return &JoinResult{PlayerID: existing.ID, Status: status}, nil
	}
	if err != nil && !errors.Is(err, repository.ErrPlayerNotFound) {
		logCtx.WithError(err).Error("Failed to look up player by name")
		return nil, ErrInternalServer
	}

	// 检查和创建之间没有锁，同名并发加入可能创建两条记录
	player := &domain.Player{
		Name:       playerName,
		RoomID:     roomID,
		IsFinished: false,
		Score:      0,
	}
	if err := s.playerRepo.Save(ctx, player); err != nil {
		logCtx.WithError(err).Error("Failed to save new player")
		return nil, ErrInternalServer
	}

	logCtx.WithField("player_id", player.ID).Info("Player joined room")
	return &JoinResult{PlayerID: player.ID, Status: status}, nil
}

// FinishGame 记录玩家完成和分数（重复调用时后写覆盖），
// 然后在房间内已无未完成玩家时把房间置为 FINISHED。
func (s *RoomService) FinishGame(ctx context.Context, roomID, playerID uint, score int) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "player_id": playerID, "score": score})

	player, err := s.playerRepo.FindByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			logCtx.Warn("FinishGame: player not found")
			return ErrPlayerNotFound
		}
		logCtx.WithError(err).Error("FinishGame: repository error loading player")
		return ErrInternalServer
	}

	player.IsFinished = true
	player.Score = score
	if err := s.playerRepo.Save(ctx, player); err != nil {
		logCtx.WithError(err).Error("FinishGame: failed to save player")
		return ErrInternalServer
	}
	logCtx.Info("Player finished")

	stillPlaying, err := s.playerRepo.ExistsUnfinishedInRoom(ctx, roomID)
	if err != nil {
		logCtx.WithError(err).Error("FinishGame: failed to check remaining players")
		return ErrInternalServer
	}
	if stillPlaying {
		return nil
	}

	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if err := s.roomRepo.UpdateStatus(ctx, room.ID, domain.RoomStatusFinished); err != nil {
		logCtx.WithError(err).Error("FinishGame: failed to save finished room")
		return ErrInternalServer
	}
	room.Status = domain.RoomStatusFinished

	logCtx.Info("All players finished, room finished")
	s.publish(ctx, room.ID, room.Status)
	return nil
}

// ListPlayers 按加入顺序返回房间内的玩家
func (s *RoomService) ListPlayers(ctx context.Context, roomID uint) ([]domain.Player, error) {
	players, err := s.playerRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		logrus.WithField("room_id", roomID).WithError(err).Error("Failed to list players")
		return nil, ErrInternalServer
	}
	return players, nil
}

// --- 私有辅助函数 ---

func (s *RoomService) findRoom(ctx context.Context, roomID uint) (*domain.Room, error) {
	logCtx := logrus.WithField("room_id", roomID)
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.Warn("Room not found")
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Repository error loading room")
		return nil, ErrInternalServer
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// publish 通知状态订阅者，失败只记录日志
func (s *RoomService) publish(ctx context.Context, roomID uint, status domain.RoomStatus) {
	if s.publisher == nil {
		return
	}
	event := domain.RoomStatusEvent{RoomID: roomID, Status: status}
	if err := s.publisher.PublishRoomStatus(ctx, event); err != nil {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "status": status}).
			WithError(err).Warn("Failed to publish room status")
	}
}
