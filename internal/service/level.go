package service

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"time"

	"drag-drop-game/internal/domain"
	"drag-drop-game/internal/repository"

	"github.com/sirupsen/logrus"
)

// LevelService 负责关卡的增删改查、游戏时的选项打乱以及孤儿图片清理。
type LevelService struct {
	levelRepo repository.LevelRepository
	blobs     repository.BlobStore
	shuffle   func(options []string)
}

// NewLevelService 创建 LevelService 实例。
func NewLevelService(levelRepo repository.LevelRepository, blobs repository.BlobStore) *LevelService {
	if levelRepo == nil {
		panic("LevelRepository cannot be nil for LevelService")
	}
	if blobs == nil {
		panic("BlobStore cannot be nil for LevelService")
	}
	return &LevelService{
		levelRepo: levelRepo,
		blobs:     blobs,
		shuffle: func(options []string) {
			rand.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
		},
	}
}

// ImageUpload 是上传的图片
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// LevelInput 是创建/更新关卡的参数。选项总是由 Answer 推导，不接受外部传入。
type LevelInput struct {
	Answer     string
	Hint       string
	LevelOrder int
	RoomID     *uint
	TimeLimit  *int
	Image      *ImageUpload // 更新时可为 nil
}

// CreateLevel 上传图片并创建关卡
func (s *LevelService) CreateLevel(ctx context.Context, in LevelInput) (*domain.Level, error) {
	logCtx := logrus.WithFields(logrus.Fields{"level_order": in.LevelOrder, "answer_len": len(in.Answer)})

	if strings.TrimSpace(in.Answer) == "" || in.Image == nil {
		logCtx.Warn("CreateLevel: answer and image are required")
		return nil, ErrInvalidInput
	}

	imageURL, err := s.blobs.Upload(ctx, in.Image.Filename, in.Image.Content)
	if err != nil {
		logCtx.WithError(err).Error("CreateLevel: failed to upload image")
		return nil, ErrInternalServer
	}

	timeLimit := domain.DefaultTimeLimit
	if in.TimeLimit != nil {
		timeLimit = *in.TimeLimit
	}
	level := &domain.Level{
		ImageURL:   imageURL,
		Answer:     in.Answer,
		Hint:       in.Hint,
		LevelOrder: in.LevelOrder,
		RoomID:     normalizeRoomID(in.RoomID),
		TimeLimit:  timeLimit,
		Options:    domain.DecomposeAnswer(in.Answer),
	}
	// 上传成功但保存失败会留下孤儿文件，由周期清理任务处理
	if err := s.levelRepo.Save(ctx, level); err != nil {
		logCtx.WithError(err).Error("CreateLevel: failed to save level")
		return nil, ErrInternalServer
	}

	logCtx.WithFields(logrus.Fields{"level_id": level.ID, "image_url": imageURL}).Info("Level created")
	return level, nil
}

// UpdateLevel 更新关卡。提供新图片时先删除旧图片（失败只记录日志）再上传新图片。
func (s *LevelService) UpdateLevel(ctx context.Context, id uint, in LevelInput) (*domain.Level, error) {
	logCtx := logrus.WithField("level_id", id)

	if strings.TrimSpace(in.Answer) == "" {
		return nil, ErrInvalidInput
	}
	level, err := s.findLevel(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Image != nil {
		if err := s.blobs.Delete(ctx, level.ImageURL); err != nil {
			logCtx.WithError(err).WithField("image_url", level.ImageURL).Warn("UpdateLevel: failed to delete old image, continuing")
		}
		imageURL, err := s.blobs.Upload(ctx, in.Image.Filename, in.Image.Content)
		if err != nil {
			logCtx.WithError(err).Error("UpdateLevel: failed to upload new image")
			return nil, ErrInternalServer
		}
		level.ImageURL = imageURL
	}

	level.Answer = in.Answer
	level.Hint = in.Hint
	level.LevelOrder = in.LevelOrder
	level.RoomID = normalizeRoomID(in.RoomID)
	if in.TimeLimit != nil {
		level.TimeLimit = *in.TimeLimit
	}
	level.Options = domain.DecomposeAnswer(in.Answer)

	if err := s.levelRepo.Save(ctx, level); err != nil {
		logCtx.WithError(err).Error("UpdateLevel: failed to save level")
		return nil, ErrInternalServer
	}
	logCtx.Info("Level updated")
	return level, nil
}

// DeleteLevel 删除图片（失败只记录日志）后删除关卡记录
func (s *LevelService) DeleteLevel(ctx context.Context, id uint) error {
	logCtx := logrus.WithField("level_id", id)

	level, err := s.findLevel(ctx, id)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, level.ImageURL); err != nil {
		logCtx.WithError(err).WithField("image_url", level.ImageURL).Warn("DeleteLevel: failed to delete image, continuing")
	}
	if err := s.levelRepo.Delete(ctx, id); err != nil {
		logCtx.WithError(err).Error("DeleteLevel: failed to delete level")
		return ErrInternalServer
	}
	logCtx.Info("Level deleted")
	return nil
}

func (s *LevelService) GetLevel(ctx context.Context, id uint) (*domain.Level, error) {
	return s.findLevel(ctx, id)
}

// ListLevels 返回关卡列表，roomID 非 nil 时只返回该房间的关卡
func (s *LevelService) ListLevels(ctx context.Context, roomID *uint) ([]domain.Level, error) {
	var (
		levels []domain.Level
		err    error
	)
	if roomID != nil {
		levels, err = s.levelRepo.FindByRoomID(ctx, *roomID)
	} else {
		levels, err = s.levelRepo.FindAll(ctx)
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to list levels")
		return nil, ErrInternalServer
	}
	return levels, nil
}

// GetLevelForPlay 按序号取关卡并打乱选项顺序，打乱结果不落库。
func (s *LevelService) GetLevelForPlay(ctx context.Context, order int) (*domain.Level, error) {
	logCtx := logrus.WithField("level_order", order)
	level, err := s.levelRepo.FindByLevelOrder(ctx, order)
	if err != nil {
		if errors.Is(err, repository.ErrLevelNotFound) {
			logCtx.Warn("No level with this order")
			return nil, ErrLevelNotFound
		}
		logCtx.WithError(err).Error("Repository error loading level by order")
		return nil, ErrInternalServer
	}
	s.shuffle(level.Options)
	return level, nil
}

// SweepOrphanBlobs 删除没有任何关卡引用且早于 grace 的文件，返回删除数量。
func (s *LevelService) SweepOrphanBlobs(ctx context.Context, grace time.Duration) (int, error) {
	referenced, err := s.levelRepo.ListImageURLs(ctx)
	if err != nil {
		return 0, err
	}
	inUse := make(map[string]struct{}, len(referenced))
	for _, ref := range referenced {
		inUse[ref] = struct{}{}
	}

	blobs, err := s.blobs.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-grace)
	removed := 0
	for _, b := range blobs {
		if _, ok := inUse[b.Ref]; ok || b.ModTime.After(cutoff) {
			continue
		}
		if err := s.blobs.Delete(ctx, b.Ref); err != nil {
			logrus.WithField("blob", b.Ref).WithError(err).Warn("Failed to delete orphan blob")
			continue
		}
		removed++
	}
	return removed, nil
}

func (s *LevelService) findLevel(ctx context.Context, id uint) (*domain.Level, error) {
	level, err := s.levelRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLevelNotFound) {
			return nil, ErrLevelNotFound
		}
		logrus.WithField("level_id", id).WithError(err).Error("Repository error loading level")
		return nil, ErrInternalServer
	}
	return level, nil
}

// normalizeRoomID 把 0 视为未关联房间
func normalizeRoomID(roomID *uint) *uint {
	if roomID == nil || *roomID == 0 {
		return nil
	}
	id := *roomID
	return &id
}
