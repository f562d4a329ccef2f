package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	chatmodels "github.com/billpap123/artepovera-backend-sub000/internal/models/chat"
)

// AutoMigrate creates or updates every table the API uses.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.ArtistProfile{},
		&models.EmployerProfile{},
		&models.Like{},
		&models.Notification{},
		&models.JobPosting{},
		&models.JobApplication{},
		&models.Comment{},
		&models.Review{},
		// chat
		&chatmodels.Chat{},
		&chatmodels.Message{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	logger.Info("AutoMigrate completed")
	return nil
}
