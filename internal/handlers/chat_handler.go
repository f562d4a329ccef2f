package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billpap123/artepovera-backend-sub000/internal/services"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chats := rg.Group("/chats")
	chats.Use(h.RequireAuth())
	{
		chats.POST("", h.CreateChat)
		chats.GET("", h.GetUserChats)
		chats.POST("/send", h.SendMessage)
		chats.GET("/:chatId/messages", h.GetMessages)
	}
}

func (h *ChatHandler) CreateChat(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateChatRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	chat, err := h.chatService.StartChat(c.Request.Context(), h.GetDB(c), userID, req.ReceiverID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ChatCreatedResponse{
		Message: "Chat ready",
		Chat:    chat,
	})
}

func (h *ChatHandler) GetUserChats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	chats, err := h.chatService.GetUserChats(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageSentResponse{
		Message: "Message sent",
		Data:    msg,
	})
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	chatID, err := ParseParamID(c, "chatId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	page, pageSize := ParsePagination(c)

	resp, err := h.chatService.GetMessages(c.Request.Context(), h.GetDB(c), userID, chatID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
