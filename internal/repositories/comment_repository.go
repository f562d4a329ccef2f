package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentRepository interface {
	Create(db *gorm.DB, comment *models.Comment) error
	FindByProfile(db *gorm.DB, profileUserID uint) ([]models.Comment, error)
	Delete(db *gorm.DB, id uint) error
}

type CommentRepositoryImpl struct{}

func NewCommentRepository() CommentRepository {
	return &CommentRepositoryImpl{}
}

func (r *CommentRepositoryImpl) Create(db *gorm.DB, comment *models.Comment) error {
	return db.Create(comment).Error
}

func (r *CommentRepositoryImpl) FindByProfile(db *gorm.DB, profileUserID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.Preload("Commenter").
		Where("profile_user_id = ?", profileUserID).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
