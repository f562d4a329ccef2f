package ws

import (
	"context"
	"encoding/json"

	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
)

const (
	EventNewNotification = "new_notification"
	EventNewMessage      = "new_message"
)

// Envelope is the frame written to clients.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Pusher delivers events to connected sessions, locally or through a Bus.
// Delivery is best-effort: nothing is queued for offline users and failures are only logged.
type Pusher struct {
	manager *Manager
	bus     Bus
}

// NewPusher builds a Pusher. bus may be nil for single-instance deployments.
func NewPusher(manager *Manager, bus Bus) *Pusher {
	return &Pusher{manager: manager, bus: bus}
}

// PushNotification sends event to the user's room and their current session.
func (p *Pusher) PushNotification(ctx context.Context, recipientID uint, event string, data interface{}) {
	p.push(ctx, Delivery{Room: UserRoom(recipientID), DirectUserID: recipientID}, event, data)
}

// PushChatMessage sends event to everyone following the chat and to the receiver's session.
func (p *Pusher) PushChatMessage(ctx context.Context, chatID, receiverID uint, event string, data interface{}) {
	p.push(ctx, Delivery{Room: ChatRoom(chatID), DirectUserID: receiverID}, event, data)
}

// DeliverLocal hands a delivery to sessions on this instance. Used by the bus forwarder.
func (p *Pusher) DeliverLocal(d Delivery) {
	p.manager.Deliver(d.Room, d.DirectUserID, d.Payload)
}

func (p *Pusher) push(ctx context.Context, d Delivery, event string, data interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.CtxError(ctx, "realtime push panicked", "room", d.Room, "panic", r)
		}
	}()

	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		logger.CtxWithError(ctx, "realtime push: marshal failed", err, "room", d.Room, "event", event)
		return
	}
	d.Payload = payload

	if p.bus != nil {
		err := p.bus.Publish(ctx, d)
		if err == nil {
			return
		}
		logger.CtxWithError(ctx, "realtime push: bus publish failed, delivering locally", err, "room", d.Room)
	}

	n := p.manager.Deliver(d.Room, d.DirectUserID, d.Payload)
	logger.CtxDebug(ctx, "realtime push", "room", d.Room, "event", event, "sessions", n)
}
