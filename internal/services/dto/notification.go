package dto

import (
	"time"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
)

// NotificationResponse is the serialized notification, both over HTTP and in pushes.
type NotificationResponse struct {
	ID            uint                   `json:"notification_id"`
	UserID        uint                   `json:"user_id"`
	SenderID      *uint                  `json:"sender_id,omitempty"`
	SenderName    string                 `json:"sender_name,omitempty"`
	Message       *string                `json:"message,omitempty"`
	MessageKey    *string                `json:"message_key,omitempty"`
	MessageParams map[string]interface{} `json:"message_params,omitempty"`
	ReadStatus    bool                   `json:"read_status"`
	CreatedAt     time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	UnreadCount   int64                   `json:"unread_count"`
}

type NotificationCriteria struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page" validate:"omitempty,min=1"`
	PageSize   int  `form:"page_size" validate:"omitempty,min=1,max=100"`
}

func NewNotificationResponse(n *models.Notification, senderName string) *NotificationResponse {
	resp := &NotificationResponse{
		ID:         n.ID,
		UserID:     n.UserID,
		SenderID:   n.SenderID,
		SenderName: senderName,
		Message:    n.Message,
		MessageKey: n.MessageKey,
		ReadStatus: n.ReadStatus,
		CreatedAt:  n.CreatedAt,
	}
	if len(n.MessageParams) > 0 {
		resp.MessageParams = map[string]interface{}(n.MessageParams)
	}
	if resp.SenderName == "" && n.Sender != nil {
		resp.SenderName = n.Sender.DisplayName()
	}
	return resp
}
