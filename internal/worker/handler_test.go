package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"drag-drop-game/internal/tasks"
	"drag-drop-game/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSweeper struct {
	grace   time.Duration
	removed int
	err     error
}

func (s *recordingSweeper) SweepOrphanBlobs(_ context.Context, grace time.Duration) (int, error) {
	s.grace = grace
	return s.removed, s.err
}

func TestBlobSweepHandler_PassesGrace(t *testing.T) {
	sweeper := &recordingSweeper{removed: 3}
	payload, err := tasks.NewBlobSweepPayload(10 * time.Minute)
	require.NoError(t, err)

	err = worker.NewBlobSweepHandler(sweeper).ProcessTask(context.Background(), asynq.NewTask(tasks.TypeBlobSweep, payload))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, sweeper.grace)
}

func TestBlobSweepHandler_BadPayloadSkipsRetry(t *testing.T) {
	sweeper := &recordingSweeper{}
	err := worker.NewBlobSweepHandler(sweeper).ProcessTask(context.Background(), asynq.NewTask(tasks.TypeBlobSweep, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestBlobSweepHandler_SweepFailureSkipsRetry(t *testing.T) {
	sweeper := &recordingSweeper{err: errors.New("db down")}
	payload, _ := tasks.NewBlobSweepPayload(time.Minute)

	err := worker.NewBlobSweepHandler(sweeper).ProcessTask(context.Background(), asynq.NewTask(tasks.TypeBlobSweep, payload))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
