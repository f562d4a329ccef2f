package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
)

// LocalQueue runs tasks on goroutines inside the API process. It implements both
// Client and Server and is used when no Redis is configured, and in tests.
type LocalQueue struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	wg       sync.WaitGroup
	sem      chan struct{}
	seq      atomic.Uint64
	// closed is guarded by mu so no wg.Add can race the final wg.Wait
	closed bool

	maxRetry   int
	RetryDelay func(attempt int) time.Duration
}

var (
	_ Client = (*LocalQueue)(nil)
	_ Server = (*LocalQueue)(nil)
)

var ErrQueueClosed = errors.New("tasks: queue closed")

func NewLocalQueue(concurrency, maxRetry int) *LocalQueue {
	if concurrency <= 0 {
		concurrency = 10
	}
	return &LocalQueue{
		handlers: make(map[string]Handler),
		sem:      make(chan struct{}, concurrency),
		maxRetry: maxRetry,
		RetryDelay: func(attempt int) time.Duration {
			return time.Duration(attempt) * 200 * time.Millisecond
		},
	}
}

func (q *LocalQueue) Register(taskType string, h Handler) {
	q.mu.Lock()
	q.handlers[taskType] = h
	q.mu.Unlock()
}

// Enqueue schedules t and returns immediately. The task runs detached from ctx
// except for its log fields.
func (q *LocalQueue) Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (string, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return "", ErrQueueClosed
	}
	h, ok := q.handlers[t.Type]
	if !ok {
		return "", fmt.Errorf("tasks: no handler registered for %q", t.Type)
	}

	maxRetry := q.maxRetry
	var delay time.Duration
	for _, op := range opts {
		if op.MaxRetry > 0 {
			maxRetry = op.MaxRetry
		}
		if op.ProcessIn > 0 {
			delay = op.ProcessIn
		}
	}

	id := fmt.Sprintf("local-%d", q.seq.Add(1))
	taskCtx := logger.Detach(ctx)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if delay > 0 {
			time.Sleep(delay)
		}
		q.sem <- struct{}{}
		defer func() { <-q.sem }()
		q.run(taskCtx, id, t, h, maxRetry)
	}()
	return id, nil
}

func (q *LocalQueue) run(ctx context.Context, id string, t Task, h Handler, maxRetry int) {
	for attempt := 0; ; attempt++ {
		err := safeCall(ctx, h, t)
		if err == nil {
			logger.WorkerLog(t.Type, id, nil)
			return
		}
		if attempt >= maxRetry {
			logger.CtxWithError(ctx, "task failed, giving up", err, "type", t.Type, "id", id, "attempts", attempt+1)
			return
		}
		logger.CtxWarn(ctx, "task failed, retrying", "type", t.Type, "id", id, "attempt", attempt+1, "error", err.Error())
		if q.RetryDelay != nil {
			time.Sleep(q.RetryDelay(attempt + 1))
		}
	}
}

func safeCall(ctx context.Context, h Handler, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tasks: handler panic: %v", r)
		}
	}()
	return h(ctx, t)
}

// Drain waits for every enqueued task (including retries) to finish.
func (q *LocalQueue) Drain() {
	q.wg.Wait()
}

// Run blocks until ctx is done and then drains outstanding tasks.
func (q *LocalQueue) Run(ctx context.Context) error {
	<-ctx.Done()
	q.markClosed()
	q.Drain()
	return nil
}

func (q *LocalQueue) Stop(ctx context.Context) error {
	q.markClosed()
	done := make(chan struct{})
	go func() {
		q.Drain()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *LocalQueue) Close() error {
	q.markClosed()
	return nil
}

func (q *LocalQueue) markClosed() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}
