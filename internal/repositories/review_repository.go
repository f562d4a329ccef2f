package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this chat")
)

type ReviewRepository interface {
	CreateReview(db *gorm.DB, review *models.Review) error
	ExistsForChatAndReviewer(db *gorm.DB, chatID, reviewerID uint) (bool, error)
	FindReviewsByUser(db *gorm.DB, userID uint) ([]models.Review, error)
	GetRatingStats(db *gorm.DB, userID uint) (*RatingStats, error)
}

type ReviewRepositoryImpl struct{}

type RatingStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) CreateReview(db *gorm.DB, review *models.Review) error {
	if err := db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrReviewAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ReviewRepositoryImpl) ExistsForChatAndReviewer(db *gorm.DB, chatID, reviewerID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Review{}).
		Where("chat_id = ? AND reviewer_id = ?", chatID, reviewerID).
		Count(&count).Error
	return count > 0, err
}

// FindReviewsByUser returns reviews received by userID, newest first.
func (r *ReviewRepositoryImpl) FindReviewsByUser(db *gorm.DB, userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Preload("Reviewer").
		Where("reviewed_user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) GetRatingStats(db *gorm.DB, userID uint) (*RatingStats, error) {
	var stats RatingStats
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_reviews").
		Where("reviewed_user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
