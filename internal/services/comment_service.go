package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/repositories"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

type CommentService interface {
	AddComment(ctx context.Context, db *gorm.DB, commenterID, profileUserID uint, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	GetComments(ctx context.Context, db *gorm.DB, profileUserID uint) ([]*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, db *gorm.DB, commentID uint) error
}

type CommentServiceImpl struct {
	commentRepo   repositories.CommentRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
}

func NewCommentService(
	commentRepo repositories.CommentRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
) CommentService {
	return &CommentServiceImpl{
		commentRepo:   commentRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (s *CommentServiceImpl) AddComment(ctx context.Context, db *gorm.DB, commenterID, profileUserID uint, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if commenterID == profileUserID {
		return nil, apperrors.ErrInvalidRequest("comment", "You cannot comment on your own profile")
	}

	users, err := s.userRepo.FindByIDs(db, []uint{commenterID, profileUserID})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	commenter, artist := users[commenterID], users[profileUserID]
	if artist == nil {
		return nil, apperrors.NewNotFoundError("user", "User not found")
	}
	if artist.Role != models.UserRoleArtist {
		return nil, apperrors.ErrInvalidOperation("comment", "Comments are only allowed on artist profiles")
	}
	if commenter == nil {
		return nil, apperrors.NewUnauthorizedError("commenter not found")
	}

	comment := &models.Comment{
		ProfileUserID: profileUserID,
		CommenterID:   commenterID,
		Content:       strings.TrimSpace(req.Comment),
	}
	if err := s.commentRepo.Create(db, comment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	_, err = s.notifications.Notify(ctx, db, NotifyInput{
		RecipientID: profileUserID,
		SenderID:    commenterID,
		SenderName:  commenter.DisplayName(),
		MessageKey:  models.NotificationKeyNewComment,
		Params:      map[string]interface{}{"commenterName": commenter.DisplayName()},
		DedupeKey:   fmt.Sprintf("comment:%d", comment.ID),
	})
	if err != nil {
		logger.CtxWithError(ctx, "comment notification failed", err, "comment_id", comment.ID)
	}

	return newCommentResponse(comment, commenter), nil
}

func (s *CommentServiceImpl) GetComments(ctx context.Context, db *gorm.DB, profileUserID uint) ([]*dto.CommentResponse, error) {
	comments, err := s.commentRepo.FindByProfile(db, profileUserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentResponse(&comments[i], comments[i].Commenter))
	}
	return out, nil
}

func (s *CommentServiceImpl) DeleteComment(ctx context.Context, db *gorm.DB, commentID uint) error {
	if err := s.commentRepo.Delete(db, commentID); err != nil {
		if errors.Is(err, repositories.ErrCommentNotFound) {
			return apperrors.ErrNotFound(err, "comment", "Comment not found")
		}
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "comment deleted", "comment_id", commentID)
	return nil
}

func newCommentResponse(c *models.Comment, commenter *models.User) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:            c.ID,
		ProfileUserID: c.ProfileUserID,
		CommenterID:   c.CommenterID,
		CommenterName: commenter.DisplayName(),
		Comment:       c.Content,
		CreatedAt:     c.CreatedAt,
	}
}
