package services

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/repositories"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

// NotifyInput describes a notification to persist and push.
// Exactly one of Message or MessageKey should be set.
type NotifyInput struct {
	RecipientID uint
	SenderID    uint
	SenderName  string
	Message     string
	MessageKey  string
	Params      map[string]interface{}
	// DedupeKey makes Notify idempotent across retries.
	DedupeKey string
}

type NotificationService interface {
	// Notify persists a notification and pushes it to the recipient.
	// The push only happens when a new row was written.
	Notify(ctx context.Context, db *gorm.DB, in NotifyInput) (*dto.NotificationResponse, error)

	GetUserNotifications(ctx context.Context, db *gorm.DB, requesterID uint, isAdmin bool, userID uint, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error)
	UnreadCount(ctx context.Context, db *gorm.DB, userID uint) (int64, error)
	MarkAsRead(ctx context.Context, db *gorm.DB, userID, notificationID uint) error
	MarkAllAsRead(ctx context.Context, db *gorm.DB, userID uint) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, userID, notificationID uint) error
	DeleteAll(ctx context.Context, db *gorm.DB, userID uint) (int64, error)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	pusher           Pusher
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, pusher Pusher) NotificationService {
	if pusher == nil {
		pusher = NoopPusher
	}
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		pusher:           pusher,
	}
}

func (s *NotificationServiceImpl) Notify(ctx context.Context, db *gorm.DB, in NotifyInput) (*dto.NotificationResponse, error) {
	if in.RecipientID == 0 {
		return nil, apperrors.ErrInvalidRequest("notification", "recipient is required")
	}

	n := &models.Notification{UserID: in.RecipientID}
	if in.SenderID != 0 {
		sender := in.SenderID
		n.SenderID = &sender
	}
	if in.MessageKey != "" {
		key := in.MessageKey
		n.MessageKey = &key
		if len(in.Params) > 0 {
			n.MessageParams = datatypes.JSONMap(in.Params)
		}
	} else {
		msg := in.Message
		n.Message = &msg
	}
	if in.DedupeKey != "" {
		key := in.DedupeKey
		n.DedupeKey = &key
	}

	created, err := s.notificationRepo.Create(db, n)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewNotificationResponse(n, in.SenderName)
	if !created {
		logger.CtxDebug(ctx, "notification already exists", "dedupe_key", in.DedupeKey, "notification_id", n.ID)
		return resp, nil
	}

	s.pusher.PushNotification(ctx, in.RecipientID, EventNewNotification, resp)
	return resp, nil
}

func (s *NotificationServiceImpl) GetUserNotifications(
	ctx context.Context,
	db *gorm.DB,
	requesterID uint,
	isAdmin bool,
	userID uint,
	criteria dto.NotificationCriteria,
) (*dto.NotificationListResponse, error) {
	if requesterID != userID && !isAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	page, pageSize := criteria.Page, criteria.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	items, total, err := s.notificationRepo.FindByUser(db, userID, repositories.NotificationCriteria{
		UnreadOnly: criteria.UnreadOnly,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]*dto.NotificationResponse, 0, len(items)),
		Total:         total,
		UnreadCount:   unread,
	}
	for i := range items {
		resp.Notifications = append(resp.Notifications, dto.NewNotificationResponse(&items[i], ""))
	}
	return resp, nil
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, db *gorm.DB, userID uint) (int64, error) {
	count, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, db *gorm.DB, userID, notificationID uint) error {
	if err := s.notificationRepo.MarkAsRead(db, notificationID, userID); err != nil {
		return mapNotificationError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, db *gorm.DB, userID uint) (int64, error) {
	n, err := s.notificationRepo.MarkAllAsRead(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}

func (s *NotificationServiceImpl) Delete(ctx context.Context, db *gorm.DB, userID, notificationID uint) error {
	if err := s.notificationRepo.Delete(db, notificationID, userID); err != nil {
		return mapNotificationError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) DeleteAll(ctx context.Context, db *gorm.DB, userID uint) (int64, error) {
	n, err := s.notificationRepo.DeleteAllForUser(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "notifications cleared", "count", n)
	return n, nil
}

func mapNotificationError(err error) error {
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.ErrNotFound(err, "notification", "Notification not found")
	}
	return apperrors.InternalError(err)
}
