package ws

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/billpap123/artepovera-backend-sub000/internal/auth"
	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

// TokenParser verifies access tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// ChatAccess answers whether a user may follow a chat room.
type ChatAccess interface {
	IsParticipant(ctx context.Context, chatID, userID uint) (bool, error)
}

type WebSocketHandler struct {
	manager  *Manager
	tokens   TokenParser
	access   ChatAccess
	upgrader websocket.Upgrader
}

// NewWebSocketHandler builds the /ws endpoint. allowedOrigins empty means any origin.
func NewWebSocketHandler(manager *Manager, tokens TokenParser, access ChatAccess, allowedOrigins []string) *WebSocketHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &WebSocketHandler{
		manager: manager,
		tokens:  tokens,
		access:  access,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				_, ok := origins[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// ServeWS authenticates via ?token= or a Bearer header, then upgrades.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("token is required"))
		return
	}
	claims, err := h.tokens.Parse(token)
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrInvalidToken)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "websocket upgrade failed", err)
		return
	}

	client := NewClient(claims.UserID, conn)
	h.manager.Attach(client)
	go client.writePump()

	ctx := logger.WithUserID(logger.Detach(c.Request.Context()), claims.UserID)
	logger.CtxInfo(ctx, "websocket connected", "session_id", client.ID, "sessions", h.manager.ClientCount())

	go func() {
		defer func() {
			h.manager.Detach(client)
			client.Close(websocket.CloseNormalClosure, "bye")
			logger.CtxInfo(ctx, "websocket disconnected", "session_id", client.ID)
		}()
		_ = client.readPump(func(msg IncomingWSMessage) {
			h.handleMessage(ctx, client, msg)
		})
	}()
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, client *Client, msg IncomingWSMessage) {
	switch msg.Action {
	case "join_chat":
		if msg.ChatID == 0 {
			return
		}
		ok, err := h.access.IsParticipant(ctx, msg.ChatID, client.UserID)
		if err != nil {
			logger.CtxWithError(ctx, "join_chat: participant check failed", err, "chat_id", msg.ChatID)
			return
		}
		if !ok {
			logger.CtxWarn(ctx, "join_chat denied", "chat_id", msg.ChatID)
			return
		}
		h.manager.Join(ChatRoom(msg.ChatID), client)

	case "leave_chat":
		if msg.ChatID != 0 {
			h.manager.Leave(ChatRoom(msg.ChatID), client)
		}

	case "ping":
		_ = client.Send([]byte(`{"event":"pong"}`))

	default:
		logger.CtxDebug(ctx, "unhandled websocket action", "action", msg.Action)
	}
}
