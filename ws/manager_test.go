package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(c *Client) [][]byte {
	var out [][]byte
	for {
		select {
		case p := <-c.send:
			out = append(out, p)
		default:
			return out
		}
	}
}

func TestManager_DeliverOncePerSession(t *testing.T) {
	t.Parallel()
	m := NewManager()

	alice := NewClient(1, nil)
	bob := NewClient(2, nil)
	m.Attach(alice)
	m.Attach(bob)
	m.Join(ChatRoom(10), alice)
	m.Join(ChatRoom(10), bob)

	// bob is both in the room and the direct recipient
	n := m.Deliver(ChatRoom(10), bob.UserID, []byte("hi"))
	assert.Equal(t, 2, n)
	assert.Len(t, drain(alice), 1)
	assert.Len(t, drain(bob), 1)

	m.Leave(ChatRoom(10), bob)
	n = m.Deliver(ChatRoom(10), bob.UserID, []byte("again"))
	assert.Equal(t, 2, n, "direct delivery still reaches bob")
	assert.Len(t, drain(bob), 1)
	drain(alice)

	n = m.Deliver(ChatRoom(99), 0, []byte("nobody"))
	assert.Equal(t, 0, n)
}

func TestManager_LatestSessionWins(t *testing.T) {
	t.Parallel()
	m := NewManager()

	phone := NewClient(7, nil)
	laptop := NewClient(7, nil)
	m.Attach(phone)
	m.Attach(laptop)

	current, ok := m.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, laptop.ID, current.ID)

	// both sessions sit in the user room, so a notification reaches each once
	assert.Equal(t, 2, m.Deliver(UserRoom(7), 7, []byte("x")))

	m.Detach(laptop)
	current, ok = m.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, phone.ID, current.ID, "remaining session takes over")
	assert.False(t, m.InRoom(UserRoom(7), laptop))

	m.Detach(phone)
	assert.False(t, m.IsUserConnected(7))
	assert.Equal(t, 0, m.ClientCount())
}

func TestManager_ClosedClientsAreSkipped(t *testing.T) {
	t.Parallel()
	m := NewManager()

	c := NewClient(3, nil)
	m.Attach(c)
	c.Close(1000, "bye")

	assert.Equal(t, 0, m.Deliver(UserRoom(3), 3, []byte("late")))

	m.Close()
	assert.Equal(t, 0, m.ClientCount())
}

type failingBus struct{ published int }

func (b *failingBus) Publish(context.Context, Delivery) error {
	b.published++
	return assert.AnError
}
func (b *failingBus) StartForwarder(context.Context, func(Delivery)) error { return nil }
func (b *failingBus) Close() error                                         { return nil }

func TestPusher_FallsBackToLocalDelivery(t *testing.T) {
	t.Parallel()
	m := NewManager()
	bus := &failingBus{}
	p := NewPusher(m, bus)

	c := NewClient(4, nil)
	m.Attach(c)

	p.PushNotification(context.Background(), 4, EventNewNotification, map[string]string{"message": "hello"})

	assert.Equal(t, 1, bus.published)
	frames := drain(c)
	require.Len(t, frames, 1)

	var env struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frames[0], &env))
	assert.Equal(t, EventNewNotification, env.Event)
	assert.Equal(t, "hello", env.Data["message"])
}

func TestPusher_SurvivesUnencodablePayload(t *testing.T) {
	t.Parallel()
	m := NewManager()
	p := NewPusher(m, nil)

	c := NewClient(5, nil)
	m.Attach(c)

	assert.NotPanics(t, func() {
		p.PushChatMessage(context.Background(), 1, 5, EventNewMessage, make(chan int))
	})
	assert.Empty(t, drain(c))
}
