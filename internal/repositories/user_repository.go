package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/models/chat"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id uint) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Exists(db *gorm.DB, id uint) (bool, error)
	ExistsByEmailOrUsername(db *gorm.DB, email, username string) (bool, error)
	FindByIDs(db *gorm.DB, ids []uint) (map[uint]*models.User, error)
	UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uint) error
	FindAll(db *gorm.DB, limit, offset int) ([]models.User, int64, error)
	FindFirstByRole(db *gorm.DB, role models.UserRole) (*models.User, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := db.Preload("ArtistProfile").Preload("EmployerProfile").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Preload("ArtistProfile").Preload("EmployerProfile").
		First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Exists(db *gorm.DB, id uint) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *UserRepositoryImpl) ExistsByEmailOrUsername(db *gorm.DB, email, username string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

// FindByIDs loads users keyed by id. Missing ids are simply absent from the map.
func (r *UserRepositoryImpl) FindByIDs(db *gorm.DB, ids []uint) (map[uint]*models.User, error) {
	out := make(map[uint]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (r *UserRepositoryImpl) UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user and every row that references them.
func (r *UserRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		cleanups := []struct {
			model interface{}
			where string
			args  []interface{}
		}{
			{&models.Like{}, "user_id = ? OR liked_user_id = ?", []interface{}{id, id}},
			{&models.Notification{}, "user_id = ? OR sender_id = ?", []interface{}{id, id}},
			{&models.Comment{}, "profile_user_id = ? OR commenter_id = ?", []interface{}{id, id}},
			{&models.Review{}, "reviewer_id = ? OR reviewed_user_id = ?", []interface{}{id, id}},
			{&models.JobApplication{}, "artist_id = ? OR job_id IN (SELECT id FROM job_postings WHERE employer_id = ?)", []interface{}{id, id}},
			{&models.JobPosting{}, "employer_id = ?", []interface{}{id}},
			{&chat.Message{}, "sender_id = ? OR receiver_id = ?", []interface{}{id, id}},
			{&chat.Chat{}, "user1_id = ? OR user2_id = ?", []interface{}{id, id}},
			{&models.ArtistProfile{}, "user_id = ?", []interface{}{id}},
			{&models.EmployerProfile{}, "user_id = ?", []interface{}{id}},
		}
		for _, c := range cleanups {
			if err := tx.Where(c.where, c.args...).Delete(c.model).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *UserRepositoryImpl) FindAll(db *gorm.DB, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) FindFirstByRole(db *gorm.DB, role models.UserRole) (*models.User, error) {
	var user models.User
	err := db.Where("role = ?", role).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
