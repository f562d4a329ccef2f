package chat

import "time"

type Message struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"message_id"`
	ChatID     uint      `gorm:"not null;index" json:"chat_id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
