package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/repositories"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/internal/tasks"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

// ChatLink is the client route of a chat, sent in match notifications.
func ChatLink(chatID uint) string {
	return fmt.Sprintf("/chats/%d", chatID)
}

type LikeService interface {
	// ToggleLike creates or removes the like actor -> target. On creation the
	// notification and match fan-out is handed to the task queue; the caller
	// gets its answer as soon as the like row is written.
	ToggleLike(ctx context.Context, db *gorm.DB, actorID, targetID uint) (*dto.ToggleLikeResponse, error)
	GetLikeStatus(ctx context.Context, db *gorm.DB, actorID, targetID uint) (*dto.LikeStatusResponse, error)
	CountLikes(ctx context.Context, db *gorm.DB, userID uint) (*dto.LikeCountResponse, error)

	// HandleLikeFanOut runs HandleLikeNotify and then HandleMatchOpen. Safe to retry.
	HandleLikeFanOut(ctx context.Context, db *gorm.DB, p tasks.LikePayload) error
	// HandleLikeNotify notifies the liked user. Safe to retry.
	HandleLikeNotify(ctx context.Context, db *gorm.DB, p tasks.LikePayload) error
	// HandleMatchOpen opens the chat and notifies both users when the like is mutual. Safe to retry.
	HandleMatchOpen(ctx context.Context, db *gorm.DB, p tasks.LikePayload) error
}

type LikeServiceImpl struct {
	likeRepo      repositories.LikeRepository
	userRepo      repositories.UserRepository
	chats         ChatService
	notifications NotificationService
	queue         tasks.Client
}

func NewLikeService(
	likeRepo repositories.LikeRepository,
	userRepo repositories.UserRepository,
	chats ChatService,
	notifications NotificationService,
	queue tasks.Client,
) LikeService {
	return &LikeServiceImpl{
		likeRepo:      likeRepo,
		userRepo:      userRepo,
		chats:         chats,
		notifications: notifications,
		queue:         queue,
	}
}

func (s *LikeServiceImpl) ToggleLike(ctx context.Context, db *gorm.DB, actorID, targetID uint) (*dto.ToggleLikeResponse, error) {
	if err := s.validatePair(db, actorID, targetID); err != nil {
		return nil, err
	}

	existing, err := s.likeRepo.Find(db, actorID, targetID)
	switch {
	case err == nil:
		if _, err := s.likeRepo.Delete(db, existing.ID); err != nil {
			return nil, apperrors.InternalError(err)
		}
		logger.CtxInfo(ctx, "like removed", "target_user_id", targetID)
		return &dto.ToggleLikeResponse{Message: "Like removed", Liked: false}, nil
	case !errors.Is(err, repositories.ErrLikeNotFound):
		return nil, apperrors.InternalError(err)
	}

	like := &models.Like{UserID: actorID, LikedUserID: targetID}
	created, err := s.likeRepo.CreateIfAbsent(db, like)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !created {
		// a concurrent request won the insert and owns the fan-out
		return &dto.ToggleLikeResponse{Message: "Like added", Liked: true}, nil
	}

	logger.CtxInfo(ctx, "like added", "like_id", like.ID, "target_user_id", targetID)
	s.enqueueFanOut(ctx, tasks.LikePayload{LikeID: like.ID, ActorID: actorID, TargetID: targetID})

	return &dto.ToggleLikeResponse{Message: "Like added", Liked: true}, nil
}

// enqueueFanOut never fails the toggle; a lost task only costs a notification.
func (s *LikeServiceImpl) enqueueFanOut(ctx context.Context, p tasks.LikePayload) {
	if s.queue == nil {
		logger.CtxWarn(ctx, "no task queue configured, skipping like fan-out", "like_id", p.LikeID)
		return
	}

	bg := logger.Detach(ctx)
	task, err := tasks.NewLikeFanOutTask(p)
	if err != nil {
		logger.CtxWithError(bg, "build like task failed", err, "like_id", p.LikeID)
		return
	}
	if _, err := s.queue.Enqueue(bg, task); err != nil {
		logger.CtxWithError(bg, "enqueue like task failed", err, "like_id", p.LikeID, "task_type", task.Type)
	}
}

func (s *LikeServiceImpl) GetLikeStatus(ctx context.Context, db *gorm.DB, actorID, targetID uint) (*dto.LikeStatusResponse, error) {
	liked, err := s.likeRepo.Exists(db, actorID, targetID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.LikeStatusResponse{Liked: liked}, nil
}

func (s *LikeServiceImpl) CountLikes(ctx context.Context, db *gorm.DB, userID uint) (*dto.LikeCountResponse, error) {
	exists, err := s.userRepo.Exists(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("user", "User not found")
	}
	count, err := s.likeRepo.CountReceived(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.LikeCountResponse{UserID: userID, Count: count}, nil
}

// HandleLikeFanOut stops before the match step when the like notification fails,
// so the queue retries the sequence from the start.
func (s *LikeServiceImpl) HandleLikeFanOut(ctx context.Context, db *gorm.DB, p tasks.LikePayload) error {
	if err := s.HandleLikeNotify(ctx, db, p); err != nil {
		return fmt.Errorf("like notification: %w", err)
	}
	if err := s.HandleMatchOpen(ctx, db, p); err != nil {
		return fmt.Errorf("match open: %w", err)
	}
	return nil
}

func (s *LikeServiceImpl) HandleLikeNotify(ctx context.Context, db *gorm.DB, p tasks.LikePayload) error {
	actor, err := s.userRepo.FindByID(db, p.ActorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxWarn(ctx, "liker no longer exists, dropping like notification", "like_id", p.LikeID)
			return nil
		}
		return err
	}

	_, err = s.notifications.Notify(ctx, db, NotifyInput{
		RecipientID: p.TargetID,
		SenderID:    actor.ID,
		SenderName:  actor.DisplayName(),
		MessageKey:  models.NotificationKeyNewLike,
		Params:      map[string]interface{}{"likerName": actor.DisplayName()},
		DedupeKey:   fmt.Sprintf("like:%d", p.LikeID),
	})
	return err
}

func (s *LikeServiceImpl) HandleMatchOpen(ctx context.Context, db *gorm.DB, p tasks.LikePayload) error {
	mutual, err := s.likeRepo.Exists(db, p.TargetID, p.ActorID)
	if err != nil {
		return err
	}
	if !mutual {
		return nil
	}

	users, err := s.userRepo.FindByIDs(db, []uint{p.ActorID, p.TargetID})
	if err != nil {
		return err
	}
	actor, target := users[p.ActorID], users[p.TargetID]
	if actor == nil || target == nil {
		logger.CtxWarn(ctx, "match participant no longer exists", "like_id", p.LikeID)
		return nil
	}

	c, err := s.chats.FindOrCreateChat(ctx, db, p.ActorID, p.TargetID)
	if err != nil {
		return err
	}
	link := ChatLink(c.ID)
	logger.CtxInfo(ctx, "mutual match", "chat_id", c.ID, "actor_id", p.ActorID, "target_id", p.TargetID)

	// each side is deduplicated on its own, so a retry only fills in what is missing
	sides := []struct{ recipient, other *models.User }{
		{recipient: target, other: actor},
		{recipient: actor, other: target},
	}
	var firstErr error
	for _, side := range sides {
		_, err := s.notifications.Notify(ctx, db, NotifyInput{
			RecipientID: side.recipient.ID,
			SenderID:    side.other.ID,
			SenderName:  side.other.DisplayName(),
			MessageKey:  models.NotificationKeyNewMatch,
			Params: map[string]interface{}{
				"otherUserName": side.other.DisplayName(),
				"chatId":        c.ID,
				"chatLink":      link,
			},
			DedupeKey: fmt.Sprintf("match:%d:%d", p.LikeID, side.recipient.ID),
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *LikeServiceImpl) validatePair(db *gorm.DB, actorID, targetID uint) error {
	if targetID == 0 {
		return apperrors.ErrInvalidRequest("like", "Invalid user id")
	}
	if actorID == targetID {
		return apperrors.ErrSelfLike
	}
	exists, err := s.userRepo.Exists(db, targetID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !exists {
		return apperrors.NewNotFoundError("user", "User not found")
	}
	// the token may outlive its user
	actorExists, err := s.userRepo.Exists(db, actorID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !actorExists {
		return apperrors.NewUnauthorizedError("User no longer exists")
	}
	return nil
}
