package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	// Create inserts n. When n carries a DedupeKey that already exists, n is
	// replaced with the stored row and created is false.
	Create(db *gorm.DB, n *models.Notification) (created bool, err error)
	FindByID(db *gorm.DB, id uint) (*models.Notification, error)
	FindByUser(db *gorm.DB, userID uint, criteria NotificationCriteria) ([]models.Notification, int64, error)
	CountUnread(db *gorm.DB, userID uint) (int64, error)
	MarkAsRead(db *gorm.DB, id, userID uint) error
	MarkAllAsRead(db *gorm.DB, userID uint) (int64, error)
	Delete(db *gorm.DB, id, userID uint) error
	DeleteAllForUser(db *gorm.DB, userID uint) (int64, error)
}

type NotificationCriteria struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, n *models.Notification) (bool, error) {
	if n.DedupeKey == nil {
		return true, db.Create(n).Error
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(n)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var existing models.Notification
	if err := db.Where("dedupe_key = ?", *n.DedupeKey).First(&existing).Error; err != nil {
		return false, err
	}
	*n = existing
	return false, nil
}

func (r *NotificationRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindByUser returns the user's notifications newest first with Sender preloaded.
func (r *NotificationRepositoryImpl) FindByUser(db *gorm.DB, userID uint, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if criteria.UnreadOnly {
		query = query.Where("read_status = ?", false)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Sender").Order("created_at DESC").Order("id DESC")
	if criteria.Limit > 0 {
		query = query.Limit(criteria.Limit).Offset(criteria.Offset)
	}
	err := query.Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) CountUnread(db *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND read_status = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(db *gorm.DB, id, userID uint) error {
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_status", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// already read rows report zero on some drivers
		var count int64
		if err := db.Model(&models.Notification{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotificationNotFound
		}
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, userID uint) (int64, error) {
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND read_status = ?", userID, false).
		Update("read_status", true)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) Delete(db *gorm.DB, id, userID uint) error {
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) DeleteAllForUser(db *gorm.DB, userID uint) (int64, error) {
	result := db.Where("user_id = ?", userID).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
