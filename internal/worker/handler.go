package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"drag-drop-game/internal/tasks"
)

// OrphanSweeper 删除没有被任何关卡引用的上传文件
type OrphanSweeper interface {
	SweepOrphanBlobs(ctx context.Context, grace time.Duration) (int, error)
}

// BlobSweepHandler 处理孤儿文件清理任务
type BlobSweepHandler struct {
	sweeper OrphanSweeper
}

// NewBlobSweepHandler 创建 Handler 实例
func NewBlobSweepHandler(sweeper OrphanSweeper) *BlobSweepHandler {
	if sweeper == nil {
		panic("OrphanSweeper cannot be nil for BlobSweepHandler")
	}
	return &BlobSweepHandler{sweeper: sweeper}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *BlobSweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"component": "blob_sweep",
		"task_id":   taskID,
		"task_type": t.Type(),
	})

	var payload tasks.BlobSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	removed, err := h.sweeper.SweepOrphanBlobs(ctx, payload.Grace())
	if err != nil {
		// 下一个周期会重新扫描，不需要重试
		logCtx.WithError(err).Error("Orphan blob sweep failed")
		return fmt.Errorf("sweep orphan blobs: %v: %w", err, asynq.SkipRetry)
	}

	logCtx.WithField("removed", removed).Info("Orphan blob sweep finished")
	return nil
}
