package service_test

import (
	"context"
	"errors"
	"testing"

	"drag-drop-game/internal/domain"
	"drag-drop-game/internal/repository"
	"drag-drop-game/internal/repository/mocks"
	"drag-drop-game/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRoomService(t *testing.T) (*service.RoomService, *mocks.RoomRepository, *mocks.PlayerRepository, *mocks.StatusPublisher) {
	t.Helper()
	roomRepo := new(mocks.RoomRepository)
	playerRepo := new(mocks.PlayerRepository)
	publisher := new(mocks.StatusPublisher)
	return service.NewRoomService(roomRepo, playerRepo, publisher), roomRepo, playerRepo, publisher
}

// --- CreateRoom / GetStatus ---

func TestRoomService_CreateRoom_StartsWaiting(t *testing.T) {
	svc, roomRepo, _, _ := newRoomService(t)
	ctx := context.Background()

	roomRepo.On("Save", ctx, mock.MatchedBy(func(r *domain.Room) bool {
		return r.Name == "lobby" && r.IsActive && r.Status == domain.RoomStatusWaiting
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Room).ID = 7
	}).Return(nil).Once()

	room, err := svc.CreateRoom(ctx, "lobby")
	require.NoError(t, err)
	assert.Equal(t, uint(7), room.ID)

	roomRepo.On("FindByID", ctx, uint(7)).Return(room, nil).Once()
	status, err := svc.GetStatus(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomStatusWaiting, status)

	roomRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_StoreFailure(t *testing.T) {
	svc, roomRepo, _, _ := newRoomService(t)
	roomRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	room, err := svc.CreateRoom(context.Background(), "lobby")
	assert.Nil(t, room)
	assert.ErrorIs(t, err, service.ErrInternalServer)
}

func TestRoomService_GetStatus_LegacyEmptyStatus(t *testing.T) {
	svc, roomRepo, _, _ := newRoomService(t)
	roomRepo.On("FindByID", mock.Anything, uint(3)).Return(&domain.Room{ID: 3}, nil).Once()

	status, err := svc.GetStatus(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomStatusWaiting, status, "空状态应按 WAITING 处理")
}

func TestRoomService_GetStatus_NotFound(t *testing.T) {
	svc, roomRepo, _, _ := newRoomService(t)
	roomRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, repository.ErrRoomNotFound).Once()

	_, err := svc.GetStatus(context.Background(), 99)
	assert.ErrorIs(t, err, service.ErrRoomNotFound)
}

// --- StartGame ---

func TestRoomService_StartGame_SetsPlayingAndPublishes(t *testing.T) {
	svc, roomRepo, _, publisher := newRoomService(t)
	ctx := context.Background()
	room := &domain.Room{ID: 1, Status: domain.RoomStatusWaiting}

	roomRepo.On("FindByID", ctx, uint(1)).Return(room, nil).Once()
	roomRepo.On("UpdateStatus", ctx, uint(1), domain.RoomStatusPlaying).Return(nil).Once()
	publisher.On("PublishRoomStatus", ctx, domain.RoomStatusEvent{RoomID: 1, Status: domain.RoomStatusPlaying}).Return(nil).Once()

	require.NoError(t, svc.StartGame(ctx, 1))
	roomRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRoomService_StartGame_NoGuardOnFinishedRoom(t *testing.T) {
	svc, roomRepo, _, publisher := newRoomService(t)
	room := &domain.Room{ID: 2, Status: domain.RoomStatusFinished}

	roomRepo.On("FindByID", mock.Anything, uint(2)).Return(room, nil).Once()
	roomRepo.On("UpdateStatus", mock.Anything, uint(2), domain.RoomStatusPlaying).Return(nil).Once()
	publisher.On("PublishRoomStatus", mock.Anything, mock.Anything).Return(nil).Once()

	require.NoError(t, svc.StartGame(context.Background(), 2))
	assert.Equal(t, domain.RoomStatusPlaying, room.Status, "已结束的房间再次开始会被覆盖为 PLAYING")
}

func TestRoomService_StartGame_PublishFailureIgnored(t *testing.T) {
	svc, roomRepo, _, publisher := newRoomService(t)
	roomRepo.On("FindByID", mock.Anything, uint(1)).Return(&domain.Room{ID: 1}, nil).Once()
	roomRepo.On("UpdateStatus", mock.Anything, uint(1), domain.RoomStatusPlaying).Return(nil).Once()
	publisher.On("PublishRoomStatus", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	assert.NoError(t, svc.StartGame(context.Background(), 1))
}

func TestRoomService_StartGame_NotFound(t *testing.T) {
	svc, roomRepo, _, publisher := newRoomService(t)
	roomRepo.On("FindByID", mock.Anything, uint(5)).Return(nil, repository.ErrRoomNotFound).Once()

	err := svc.StartGame(context.Background(), 5)
	assert.ErrorIs(t, err, service.ErrRoomNotFound)
	roomRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishRoomStatus", mock.Anything, mock.Anything)
}

func TestRoomService_NilPublisher(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	svc := service.NewRoomService(roomRepo, new(mocks.PlayerRepository), nil)
	roomRepo.On("FindByID", mock.Anything, uint(1)).Return(&domain.Room{ID: 1}, nil).Once()
	roomRepo.On("UpdateStatus", mock.Anything, uint(1), domain.RoomStatusPlaying).Return(nil).Once()

	assert.NoError(t, svc.StartGame(context.Background(), 1))
}

// --- JoinRoom ---

func TestRoomService_JoinRoom_NewPlayer(t *testing.T) {
	svc, roomRepo, playerRepo, _ := newRoomService(t)
	ctx := context.Background()

	roomRepo.On("FindByID", ctx, uint(1)).Return(&domain.Room{ID: 1, Status: domain.RoomStatusWaiting}, nil).Once()
	playerRepo.On("FindByRoomIDAndName", ctx, uint(1), "Alice").Return(nil, repository.ErrPlayerNotFound).Once()
	playerRepo.On("Save", ctx, mock.MatchedBy(func(p *domain.Player) bool {
		return p.Name == "Alice" && p.RoomID == 1 && !p.IsFinished && p.Score == 0
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Player).ID = 11
	}).Return(nil).Once()

	res, err := svc.JoinRoom(ctx, 1, "Alice")
	require.NoError(t, err)
	assert.Equal(t, uint(11), res.PlayerID)
	assert.Equal(t, domain.RoomStatusWaiting, res.Status)
	playerRepo.AssertExpectations(t)
}

func TestRoomService_JoinRoom_Idempotent(t *testing.T) {
	svc, roomRepo, playerRepo, _ := newRoomService(t)
	ctx := context.Background()
	room := &domain.Room{ID: 1, Status: domain.RoomStatusWaiting}
	roomRepo.On("FindByID", ctx, uint(1)).Return(room, nil).Twice()

	playerRepo.On("FindByRoomIDAndName", ctx, uint(1), "Alice").Return(nil, repository.ErrPlayerNotFound).Once()
	playerRepo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Player).ID = 11
	}).Return(nil).Once()
	first, err := svc.JoinRoom(ctx, 1, "Alice")
	require.NoError(t, err)

	playerRepo.On("FindByRoomIDAndName", ctx, uint(1), "Alice").Return(&domain.Player{ID: 11, Name: "Alice", RoomID: 1}, nil).Once()
	second, err := svc.JoinRoom(ctx, 1, "Alice")
	require.NoError(t, err)

	assert.Equal(t, first.PlayerID, second.PlayerID, "同名重新加入应返回同一个玩家")
	playerRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestRoomService_JoinRoom_RejectedWhenNotWaiting(t *testing.T) {
	for _, status := range []domain.RoomStatus{domain.RoomStatusPlaying, domain.RoomStatusFinished} {
		t.Run(string(status), func(t *testing.T) {
			svc, roomRepo, playerRepo, _ := newRoomService(t)
			roomRepo.On("FindByID", mock.Anything, uint(1)).Return(&domain.Room{ID: 1, Status: status}, nil).Once()

			res, err := svc.JoinRoom(context.Background(), 1, "Bob")
			assert.Nil(t, res)
			assert.ErrorIs(t, err, service.ErrRoomNotJoinable)
			playerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			playerRepo.AssertNotCalled(t, "FindByRoomIDAndName", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRoomService_JoinRoom_RoomNotFound(t *testing.T) {
	svc, roomRepo, _, _ := newRoomService(t)
	roomRepo.On("FindByID", mock.Anything, uint(4)).Return(nil, repository.ErrRoomNotFound).Once()

	_, err := svc.JoinRoom(context.Background(), 4, "Bob")
	assert.ErrorIs(t, err, service.ErrRoomNotFound)
}

func TestRoomService_JoinRoom_LookupFailure(t *testing.T) {
	svc, roomRepo, playerRepo, _ := newRoomService(t)
	roomRepo.On("FindByID", mock.Anything, uint(1)).Return(&domain.Room{ID: 1}, nil).Once()
	playerRepo.On("FindByRoomIDAndName", mock.Anything, uint(1), "Bob").Return(nil, errors.New("db down")).Once()

	_, err := svc.JoinRoom(context.Background(), 1, "Bob")
	assert.ErrorIs(t, err, service.ErrInternalServer)
	playerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// --- FinishGame ---

func TestRoomService_FinishGame_LastPlayerFinishesRoom(t *testing.T) {
	svc, roomRepo, playerRepo, publisher := newRoomService(t)
	ctx := context.Background()
	p1 := &domain.Player{ID: 1, RoomID: 9}
	p2 := &domain.Player{ID: 2, RoomID: 9}
	room := &domain.Room{ID: 9, Status: domain.RoomStatusPlaying}

	playerRepo.On("FindByID", ctx, uint(1)).Return(p1, nil).Once()
	playerRepo.On("FindByID", ctx, uint(2)).Return(p2, nil).Once()
	playerRepo.On("Save", ctx, mock.Anything).Return(nil).Twice()
	// 第一个玩家完成时还有人未完成
	playerRepo.On("ExistsUnfinishedInRoom", ctx, uint(9)).Return(true, nil).Once()
	playerRepo.On("ExistsUnfinishedInRoom", ctx, uint(9)).Return(false, nil).Once()

	require.NoError(t, svc.FinishGame(ctx, 9, 1, 50))
	assert.Equal(t, domain.RoomStatusPlaying, room.Status)
	roomRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)

	roomRepo.On("FindByID", ctx, uint(9)).Return(room, nil).Once()
	roomRepo.On("UpdateStatus", ctx, uint(9), domain.RoomStatusFinished).Return(nil).Once()
	publisher.On("PublishRoomStatus", ctx, domain.RoomStatusEvent{RoomID: 9, Status: domain.RoomStatusFinished}).Return(nil).Once()

	require.NoError(t, svc.FinishGame(ctx, 9, 2, 70))
	assert.Equal(t, domain.RoomStatusFinished, room.Status)
	assert.True(t, p1.IsFinished)
	assert.Equal(t, 50, p1.Score)
	assert.Equal(t, 70, p2.Score)

	roomRepo.AssertExpectations(t)
	playerRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRoomService_FinishGame_LastWriteWins(t *testing.T) {
	svc, roomRepo, playerRepo, publisher := newRoomService(t)
	player := &domain.Player{ID: 1, RoomID: 9}
	room := &domain.Room{ID: 9}

	playerRepo.On("FindByID", mock.Anything, uint(1)).Return(player, nil)
	playerRepo.On("Save", mock.Anything, player).Return(nil)
	playerRepo.On("ExistsUnfinishedInRoom", mock.Anything, uint(9)).Return(false, nil)
	roomRepo.On("FindByID", mock.Anything, uint(9)).Return(room, nil)
	roomRepo.On("UpdateStatus", mock.Anything, uint(9), domain.RoomStatusFinished).Return(nil)
	publisher.On("PublishRoomStatus", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.FinishGame(context.Background(), 9, 1, 10))
	require.NoError(t, svc.FinishGame(context.Background(), 9, 1, -3))
	assert.Equal(t, -3, player.Score, "重复完成以最后一次分数为准")
	assert.True(t, player.IsFinished)
}

func TestRoomService_FinishGame_PlayerNotFound(t *testing.T) {
	svc, _, playerRepo, _ := newRoomService(t)
	playerRepo.On("FindByID", mock.Anything, uint(42)).Return(nil, repository.ErrPlayerNotFound).Once()

	err := svc.FinishGame(context.Background(), 1, 42, 0)
	assert.ErrorIs(t, err, service.ErrPlayerNotFound)
	playerRepo.AssertNotCalled(t, "ExistsUnfinishedInRoom", mock.Anything, mock.Anything)
}

func TestRoomService_FinishGame_CheckFailure(t *testing.T) {
	svc, _, playerRepo, _ := newRoomService(t)
	playerRepo.On("FindByID", mock.Anything, uint(1)).Return(&domain.Player{ID: 1}, nil).Once()
	playerRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	playerRepo.On("ExistsUnfinishedInRoom", mock.Anything, uint(2)).Return(false, errors.New("db down")).Once()

	err := svc.FinishGame(context.Background(), 2, 1, 5)
	assert.ErrorIs(t, err, service.ErrInternalServer)
}

// --- ListPlayers / DeleteRoom / ListRooms ---

func TestRoomService_ListPlayers(t *testing.T) {
	svc, _, playerRepo, _ := newRoomService(t)
	players := []domain.Player{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	playerRepo.On("FindByRoomID", mock.Anything, uint(3)).Return(players, nil).Once()

	got, err := svc.ListPlayers(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, players, got)
}

func TestRoomService_DeleteRoom(t *testing.T) {
	svc, roomRepo, playerRepo, _ := newRoomService(t)
	roomRepo.On("Delete", mock.Anything, uint(3)).Return(nil).Once()
	require.NoError(t, svc.DeleteRoom(context.Background(), 3))

	roomRepo.On("Delete", mock.Anything, uint(4)).Return(errors.New("db down")).Once()
	assert.ErrorIs(t, svc.DeleteRoom(context.Background(), 4), service.ErrInternalServer)

	// 不级联删除玩家
	assert.Empty(t, playerRepo.Calls)
}

func TestRoomService_ListRooms(t *testing.T) {
	svc, roomRepo, _, _ := newRoomService(t)
	roomRepo.On("FindAll", mock.Anything).Return([]domain.Room{{ID: 1}}, nil).Once()

	rooms, err := svc.ListRooms(context.Background())
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}
