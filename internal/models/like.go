package models

import "time"

// Like is a directed edge: UserID liked LikedUserID.
type Like struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"like_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_likes_pair" json:"user_id"`
	LikedUserID uint      `gorm:"not null;uniqueIndex:idx_likes_pair;index" json:"liked_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
