package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/models/chat"
)

var (
	ErrChatNotFound    = errors.New("chat not found")
	ErrUserNotInChat   = errors.New("user is not a participant in this chat")
	ErrMessageNotFound = errors.New("message not found")
)

type ChatRepository interface {
	// Chat operations
	FindByID(db *gorm.DB, id uint) (*chat.Chat, error)
	FindByPair(db *gorm.DB, user1ID, user2ID uint) (*chat.Chat, error)
	FindOrCreateByPair(db *gorm.DB, userA, userB uint) (*chat.Chat, bool, error)
	FindUserChats(db *gorm.DB, userID uint) ([]chat.Chat, error)
	SetRatingStatus(db *gorm.DB, chatID uint, column string, status models.RatingStatus) error

	// Message operations
	CreateMessage(db *gorm.DB, message *chat.Message) error
	FindMessages(db *gorm.DB, chatID uint, limit, offset int) ([]chat.Message, int64, error)
}

type ChatRepositoryImpl struct{}

func NewChatRepository() ChatRepository {
	return &ChatRepositoryImpl{}
}

func (r *ChatRepositoryImpl) FindByID(db *gorm.DB, id uint) (*chat.Chat, error) {
	var c chat.Chat
	if err := db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByPair expects an already normalized pair.
func (r *ChatRepositoryImpl) FindByPair(db *gorm.DB, user1ID, user2ID uint) (*chat.Chat, error) {
	var c chat.Chat
	err := db.Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindOrCreateByPair returns the single chat for {userA, userB}, creating it when absent.
// The unique (user1_id, user2_id) index arbitrates concurrent callers: a losing insert
// is a no-op and the winner's row is read back. created reports whether this call inserted.
func (r *ChatRepositoryImpl) FindOrCreateByPair(db *gorm.DB, userA, userB uint) (*chat.Chat, bool, error) {
	low, high := chat.NormalizePair(userA, userB)

	existing, err := r.FindByPair(db, low, high)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrChatNotFound) {
		return nil, false, err
	}

	c := &chat.Chat{
		User1ID:              low,
		User2ID:              high,
		ArtistRatingStatus:   models.RatingStatusPending,
		EmployerRatingStatus: models.RatingStatusPending,
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(c)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return c, true, nil
	}

	existing, err = r.FindByPair(db, low, high)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *ChatRepositoryImpl) FindUserChats(db *gorm.DB, userID uint) ([]chat.Chat, error) {
	var chats []chat.Chat
	err := db.Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("updated_at DESC").Order("id DESC").
		Find(&chats).Error
	return chats, err
}

func (r *ChatRepositoryImpl) SetRatingStatus(db *gorm.DB, chatID uint, column string, status models.RatingStatus) error {
	switch column {
	case "artist_rating_status", "employer_rating_status":
	default:
		return errors.New("unknown rating status column " + column)
	}
	result := db.Model(&chat.Chat{}).Where("id = ?", chatID).Update(column, status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

// CreateMessage stores the message and bumps the chat's counter in one transaction.
func (r *ChatRepositoryImpl) CreateMessage(db *gorm.DB, message *chat.Message) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		result := tx.Model(&chat.Chat{}).Where("id = ?", message.ChatID).
			UpdateColumns(map[string]interface{}{
				"message_count": gorm.Expr("message_count + ?", 1),
				"updated_at":    message.CreatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrChatNotFound
		}
		return nil
	})
}

// FindMessages returns messages oldest first.
func (r *ChatRepositoryImpl) FindMessages(db *gorm.DB, chatID uint, limit, offset int) ([]chat.Message, int64, error) {
	var messages []chat.Message
	var total int64

	query := db.Model(&chat.Message{}).Where("chat_id = ?", chatID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at ASC").Order("id ASC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, total, err
}
