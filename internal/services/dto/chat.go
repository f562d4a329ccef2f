package dto

import (
	"github.com/billpap123/artepovera-backend-sub000/internal/models/chat"
)

type CreateChatRequest struct {
	ReceiverID uint `json:"receiverId" validate:"required,min=1"`
}

type SendMessageRequest struct {
	ChatID  uint   `json:"chat_id" validate:"required,min=1"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}

type ChatCreatedResponse struct {
	Message string     `json:"message"`
	Chat    *chat.Chat `json:"chat"`
}

// ChatSummary is one entry of the caller's chat list.
type ChatSummary struct {
	*chat.Chat
	OtherUserID   uint   `json:"other_user_id"`
	OtherUserName string `json:"other_user_name"`
	OtherPicture  string `json:"other_user_picture,omitempty"`
}

type MessageSentResponse struct {
	Message string        `json:"message"`
	Data    *chat.Message `json:"data"`
}

type MessageListResponse struct {
	Messages []chat.Message `json:"messages"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ChatMessageEvent is the payload of a new_message push.
type ChatMessageEvent struct {
	*chat.Message
	SenderName string `json:"sender_name"`
}
