package workers

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/services"
	"github.com/billpap123/artepovera-backend-sub000/internal/tasks"
	"github.com/billpap123/artepovera-backend-sub000/internal/testutil"
)

type fakeLikes struct {
	services.LikeService

	mu    sync.Mutex
	calls []tasks.LikePayload
	fail  error
}

func (f *fakeLikes) HandleLikeFanOut(_ context.Context, _ *gorm.DB, p tasks.LikePayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, p)
	return f.fail
}

func TestLikeWorker_DispatchesPayloads(t *testing.T) {
	t.Parallel()
	q := tasks.NewLocalQueue(2, 0)
	likes := &fakeLikes{}
	NewLikeWorker(testutil.NewTestDB(t), likes).Register(q)

	p := tasks.LikePayload{LikeID: 3, ActorID: 5, TargetID: 9}
	task, err := tasks.NewLikeFanOutTask(p)
	require.NoError(t, err)

	_, err = q.Enqueue(context.Background(), task)
	require.NoError(t, err)
	q.Drain()

	assert.Equal(t, []tasks.LikePayload{p}, likes.calls)
}

func TestLikeWorker_DropsBadPayload(t *testing.T) {
	t.Parallel()
	q := tasks.NewLocalQueue(1, 3)
	q.RetryDelay = nil
	likes := &fakeLikes{}
	NewLikeWorker(testutil.NewTestDB(t), likes).Register(q)

	_, err := q.Enqueue(context.Background(), tasks.Task{Type: tasks.TypeLikeFanOut, Payload: []byte("{")})
	require.NoError(t, err)
	q.Drain()

	assert.Empty(t, likes.calls, "a malformed task is acknowledged without calling the service")
}

func TestLikeWorker_RetriesServiceErrors(t *testing.T) {
	t.Parallel()
	q := tasks.NewLocalQueue(1, 2)
	q.RetryDelay = nil
	likes := &fakeLikes{fail: assert.AnError}
	NewLikeWorker(testutil.NewTestDB(t), likes).Register(q)

	task, err := tasks.NewLikeFanOutTask(tasks.LikePayload{LikeID: 1, ActorID: 2, TargetID: 3})
	require.NoError(t, err)
	_, err = q.Enqueue(context.Background(), task)
	require.NoError(t, err)
	q.Drain()

	assert.Len(t, likes.calls, 3)
}
