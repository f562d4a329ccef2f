package services

import (
	"context"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/repositories"
	"github.com/billpap123/artepovera-backend-sub000/internal/tasks"
	"github.com/billpap123/artepovera-backend-sub000/internal/testutil"
)

type pushed struct {
	Event       string
	RecipientID uint
	ChatID      uint
	Data        interface{}
}

// recordingPusher keeps every push for assertions. A non-nil slow hook runs
// before the push is recorded, outside the lock.
type recordingPusher struct {
	mu     sync.Mutex
	events []pushed
	slow   func(data interface{})
}

func (p *recordingPusher) PushNotification(_ context.Context, recipientID uint, event string, data interface{}) {
	if p.slow != nil {
		p.slow(data)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pushed{Event: event, RecipientID: recipientID, Data: data})
}

func (p *recordingPusher) PushChatMessage(_ context.Context, chatID, receiverID uint, event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pushed{Event: event, RecipientID: receiverID, ChatID: chatID, Data: data})
}

func (p *recordingPusher) all() []pushed {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pushed(nil), p.events...)
}

// env wires the like flow against a fresh database with an in-process queue.
type env struct {
	db            *gorm.DB
	queue         *tasks.LocalQueue
	pusher        *recordingPusher
	userRepo      repositories.UserRepository
	chatRepo      repositories.ChatRepository
	notifications NotificationService
	chats         ChatService
	likes         LikeService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		db:       testutil.NewTestDB(t),
		queue:    tasks.NewLocalQueue(4, 2),
		pusher:   &recordingPusher{},
		userRepo: repositories.NewUserRepository(),
		chatRepo: repositories.NewChatRepository(),
	}
	e.queue.RetryDelay = nil
	e.notifications = NewNotificationService(repositories.NewNotificationRepository(), e.pusher)
	e.chats = NewChatService(e.chatRepo, e.userRepo, e.pusher)
	e.likes = NewLikeService(repositories.NewLikeRepository(), e.userRepo, e.chats, e.notifications, e.queue)

	e.queue.Register(tasks.TypeLikeFanOut, func(ctx context.Context, task tasks.Task) error {
		p, err := tasks.ParseLikePayload(task)
		if err != nil {
			return nil
		}
		return e.likes.HandleLikeFanOut(ctx, e.db.WithContext(ctx), p)
	})

	t.Cleanup(func() {
		_ = e.queue.Close()
		e.queue.Drain()
	})
	return e
}

// toggle runs ToggleLike and waits for its background fan-out.
func (e *env) toggle(t *testing.T, actorID, targetID uint) (bool, error) {
	t.Helper()
	resp, err := e.likes.ToggleLike(context.Background(), e.db, actorID, targetID)
	e.queue.Drain()
	if err != nil {
		return false, err
	}
	return resp.Liked, nil
}
