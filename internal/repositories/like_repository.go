package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
)

var ErrLikeNotFound = errors.New("like not found")

type LikeRepository interface {
	Find(db *gorm.DB, userID, likedUserID uint) (*models.Like, error)
	// CreateIfAbsent inserts like and reports whether this call created the row.
	CreateIfAbsent(db *gorm.DB, like *models.Like) (bool, error)
	Delete(db *gorm.DB, likeID uint) (bool, error)
	Exists(db *gorm.DB, userID, likedUserID uint) (bool, error)
	CountReceived(db *gorm.DB, userID uint) (int64, error)
}

type LikeRepositoryImpl struct{}

func NewLikeRepository() LikeRepository {
	return &LikeRepositoryImpl{}
}

func (r *LikeRepositoryImpl) Find(db *gorm.DB, userID, likedUserID uint) (*models.Like, error) {
	var like models.Like
	err := db.Where("user_id = ? AND liked_user_id = ?", userID, likedUserID).First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLikeNotFound
		}
		return nil, err
	}
	return &like, nil
}

func (r *LikeRepositoryImpl) CreateIfAbsent(db *gorm.DB, like *models.Like) (bool, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *LikeRepositoryImpl) Delete(db *gorm.DB, likeID uint) (bool, error) {
	result := db.Delete(&models.Like{}, likeID)
	return result.RowsAffected > 0, result.Error
}

func (r *LikeRepositoryImpl) Exists(db *gorm.DB, userID, likedUserID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Like{}).
		Where("user_id = ? AND liked_user_id = ?", userID, likedUserID).
		Count(&count).Error
	return count > 0, err
}

func (r *LikeRepositoryImpl) CountReceived(db *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Like{}).Where("liked_user_id = ?", userID).Count(&count).Error
	return count, err
}
