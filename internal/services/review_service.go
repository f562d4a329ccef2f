package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/repositories"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

type ReviewService interface {
	// CreateReview rates the other participant of a chat that has at least one message.
	CreateReview(ctx context.Context, db *gorm.DB, reviewerID uint, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetUserReviews(ctx context.Context, db *gorm.DB, userID uint) (*dto.UserReviewsResponse, error)
}

type ReviewServiceImpl struct {
	reviewRepo repositories.ReviewRepository
	chatRepo   repositories.ChatRepository
	userRepo   repositories.UserRepository
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	chatRepo repositories.ChatRepository,
	userRepo repositories.UserRepository,
) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo: reviewRepo,
		chatRepo:   chatRepo,
		userRepo:   userRepo,
	}
}

func (s *ReviewServiceImpl) CreateReview(ctx context.Context, db *gorm.DB, reviewerID uint, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	c, err := s.chatRepo.FindByID(db, req.ChatID)
	if err != nil {
		if errors.Is(err, repositories.ErrChatNotFound) {
			return nil, apperrors.ErrNotFound(err, "chat", "Chat not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if !c.HasParticipant(reviewerID) {
		return nil, apperrors.ErrChatAccessDenied
	}
	if c.MessageCount == 0 {
		return nil, apperrors.ErrReviewNotAllowed
	}

	reviewer, err := s.userRepo.FindByID(db, reviewerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	review := &models.Review{
		ChatID:         c.ID,
		ReviewerID:     reviewerID,
		ReviewedUserID: c.OtherParticipant(reviewerID),
		Rating:         req.Rating,
		Comment:        strings.TrimSpace(req.Comment),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.CreateReview(tx, review); err != nil {
			return err
		}
		column := ratingStatusColumn(reviewer.Role)
		if column == "" {
			return nil
		}
		return s.chatRepo.SetRatingStatus(tx, c.ID, column, models.RatingStatusCompleted)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrReviewAlreadyExists) {
			return nil, apperrors.ErrReviewAlreadySubmitted
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "review submitted", "chat_id", c.ID, "reviewed_user_id", review.ReviewedUserID, "rating", review.Rating)
	return newReviewResponse(review, reviewer), nil
}

func (s *ReviewServiceImpl) GetUserReviews(ctx context.Context, db *gorm.DB, userID uint) (*dto.UserReviewsResponse, error) {
	reviews, err := s.reviewRepo.FindReviewsByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	stats, err := s.reviewRepo.GetRatingStats(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.UserReviewsResponse{
		Reviews:       make([]*dto.ReviewResponse, 0, len(reviews)),
		AverageRating: stats.AverageRating,
		Count:         stats.TotalReviews,
	}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, newReviewResponse(&reviews[i], reviews[i].Reviewer))
	}
	return resp, nil
}

// ratingStatusColumn maps the reviewer's role to the chat column tracking their side.
func ratingStatusColumn(role models.UserRole) string {
	switch role {
	case models.UserRoleArtist:
		return "artist_rating_status"
	case models.UserRoleEmployer:
		return "employer_rating_status"
	}
	return ""
}

func newReviewResponse(r *models.Review, reviewer *models.User) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:             r.ID,
		ChatID:         r.ChatID,
		ReviewerID:     r.ReviewerID,
		ReviewerName:   reviewer.DisplayName(),
		ReviewedUserID: r.ReviewedUserID,
		Rating:         r.Rating,
		Comment:        r.Comment,
		CreatedAt:      r.CreatedAt,
	}
}
