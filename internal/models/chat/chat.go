package chat

import (
	"time"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
)

// Chat links exactly two users. User1ID is always the smaller id.
type Chat struct {
	ID                   uint                `gorm:"primaryKey;autoIncrement" json:"chat_id"`
	User1ID              uint                `gorm:"not null;uniqueIndex:idx_chats_pair" json:"user1_id"`
	User2ID              uint                `gorm:"not null;uniqueIndex:idx_chats_pair;index" json:"user2_id"`
	MessageCount         int                 `gorm:"not null;default:0" json:"message_count"`
	ArtistRatingStatus   models.RatingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"artist_rating_status"`
	EmployerRatingStatus models.RatingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"employer_rating_status"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// NormalizePair orders two user ids as (low, high).
func NormalizePair(a, b uint) (uint, uint) {
	if a < b {
		return a, b
	}
	return b, a
}

func (c *Chat) HasParticipant(userID uint) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherParticipant returns the participant that is not userID.
func (c *Chat) OtherParticipant(userID uint) uint {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}
