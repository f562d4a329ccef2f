package services

import "context"

// ServiceContainer holds every service the handlers use.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	LikeService         LikeService
	ChatService         ChatService
	NotificationService NotificationService
	JobService          JobService
	CommentService      CommentService
	ReviewService       ReviewService
}

// Pusher delivers realtime events. Implementations never fail the caller.
type Pusher interface {
	PushNotification(ctx context.Context, recipientID uint, event string, data interface{})
	PushChatMessage(ctx context.Context, chatID, receiverID uint, event string, data interface{})
}

const (
	EventNewNotification = "new_notification"
	EventNewMessage      = "new_message"
)

type noopPusher struct{}

func (noopPusher) PushNotification(context.Context, uint, string, interface{}) {}
func (noopPusher) PushChatMessage(context.Context, uint, uint, string, interface{}) {}

// NoopPusher discards every event.
var NoopPusher Pusher = noopPusher{}
