package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billpap123/artepovera-backend-sub000/internal/auth"
)

type staticAccess map[uint][]uint // chatID -> participants

func (a staticAccess) IsParticipant(_ context.Context, chatID, userID uint) (bool, error) {
	for _, id := range a[chatID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func newWSServer(t *testing.T) (*httptest.Server, *Manager, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("ws-secret", time.Hour)
	manager := NewManager()
	h := NewWebSocketHandler(manager, tokens, staticAccess{42: {1, 2}}, nil)

	r := gin.New()
	r.GET("/ws", h.ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		manager.Close()
		srv.Close()
	})
	return srv, manager, tokens
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestServeWS_RequiresToken(t *testing.T) {
	t.Parallel()
	srv, _, _ := newWSServer(t)

	res, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res2, err := http.Get(srv.URL + "/ws?token=garbage")
	require.NoError(t, err)
	defer res2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res2.StatusCode)
}

func TestServeWS_JoinChatAndReceive(t *testing.T) {
	t.Parallel()
	srv, manager, tokens := newWSServer(t)

	aliceToken, _, err := tokens.Generate(1, "artist")
	require.NoError(t, err)
	malloryToken, _, err := tokens.Generate(3, "artist")
	require.NoError(t, err)

	alice := dial(t, srv, aliceToken)
	mallory := dial(t, srv, malloryToken)

	for _, conn := range []*websocket.Conn{alice, mallory} {
		require.NoError(t, conn.WriteJSON(IncomingWSMessage{Action: "join_chat", ChatID: 42}))
		// the pong proves the join above was processed
		require.NoError(t, conn.WriteJSON(IncomingWSMessage{Action: "ping"}))
		assert.Equal(t, "pong", readEvent(t, conn).Event)
	}

	pusher := NewPusher(manager, nil)
	pusher.PushChatMessage(context.Background(), 42, 2, EventNewMessage, map[string]string{"message": "hello"})

	env := readEvent(t, alice)
	assert.Equal(t, EventNewMessage, env.Event)

	// mallory is not a participant and must not receive chat traffic
	pusher.PushNotification(context.Background(), 3, EventNewNotification, map[string]string{"message": "only yours"})
	env = readEvent(t, mallory)
	assert.Equal(t, EventNewNotification, env.Event)
}
