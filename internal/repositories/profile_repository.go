package repositories

import (
	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
)

type ProfileRepository interface {
	CreateArtistProfile(db *gorm.DB, profile *models.ArtistProfile) error
	CreateEmployerProfile(db *gorm.DB, profile *models.EmployerProfile) error
	UpdateArtistProfile(db *gorm.DB, userID uint, fields map[string]interface{}) error
	UpdateEmployerProfile(db *gorm.DB, userID uint, fields map[string]interface{}) error
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func (r *ProfileRepositoryImpl) CreateArtistProfile(db *gorm.DB, profile *models.ArtistProfile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) CreateEmployerProfile(db *gorm.DB, profile *models.EmployerProfile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) UpdateArtistProfile(db *gorm.DB, userID uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return db.Model(&models.ArtistProfile{}).Where("user_id = ?", userID).Updates(fields).Error
}

func (r *ProfileRepositoryImpl) UpdateEmployerProfile(db *gorm.DB, userID uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return db.Model(&models.EmployerProfile{}).Where("user_id = ?", userID).Updates(fields).Error
}
