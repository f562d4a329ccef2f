package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification holds either a rendered Message or a MessageKey with MessageParams.
type Notification struct {
	ID            uint              `gorm:"primaryKey;autoIncrement" json:"notification_id"`
	UserID        uint              `gorm:"not null;index" json:"user_id"`
	SenderID      *uint             `gorm:"index" json:"sender_id,omitempty"`
	Message       *string           `gorm:"type:text" json:"message,omitempty"`
	MessageKey    *string           `gorm:"size:128" json:"message_key,omitempty"`
	MessageParams datatypes.JSONMap `json:"message_params,omitempty"`
	ReadStatus    bool              `gorm:"default:false;not null" json:"read_status"`
	DedupeKey     *string           `gorm:"size:191;uniqueIndex" json:"-"`
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`

	Sender *User `gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL" json:"-"`
}
