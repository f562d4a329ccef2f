package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
	"github.com/billpap123/artepovera-backend-sub000/internal/models/chat"
	"github.com/billpap123/artepovera-backend-sub000/internal/repositories"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

type ChatService interface {
	// FindOrCreateChat returns the single chat of the unordered pair (userA, userB).
	FindOrCreateChat(ctx context.Context, db *gorm.DB, userA, userB uint) (*chat.Chat, error)
	StartChat(ctx context.Context, db *gorm.DB, callerID, receiverID uint) (*chat.Chat, error)
	GetUserChats(ctx context.Context, db *gorm.DB, userID uint) ([]*dto.ChatSummary, error)
	SendMessage(ctx context.Context, db *gorm.DB, senderID uint, req *dto.SendMessageRequest) (*chat.Message, error)
	GetMessages(ctx context.Context, db *gorm.DB, userID, chatID uint, page, pageSize int) (*dto.MessageListResponse, error)
	IsParticipant(ctx context.Context, db *gorm.DB, chatID, userID uint) (bool, error)
}

type ChatServiceImpl struct {
	chatRepo repositories.ChatRepository
	userRepo repositories.UserRepository
	pusher   Pusher
}

func NewChatService(chatRepo repositories.ChatRepository, userRepo repositories.UserRepository, pusher Pusher) ChatService {
	if pusher == nil {
		pusher = NoopPusher
	}
	return &ChatServiceImpl{
		chatRepo: chatRepo,
		userRepo: userRepo,
		pusher:   pusher,
	}
}

func (s *ChatServiceImpl) FindOrCreateChat(ctx context.Context, db *gorm.DB, userA, userB uint) (*chat.Chat, error) {
	if userA == 0 || userB == 0 || userA == userB {
		return nil, apperrors.ErrInvalidRequest("chat", "a chat needs two distinct users")
	}

	c, created, err := s.chatRepo.FindOrCreateByPair(db, userA, userB)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if created {
		logger.CtxInfo(ctx, "chat created", "chat_id", c.ID, "user1_id", c.User1ID, "user2_id", c.User2ID)
	}
	return c, nil
}

func (s *ChatServiceImpl) StartChat(ctx context.Context, db *gorm.DB, callerID, receiverID uint) (*chat.Chat, error) {
	if callerID == receiverID {
		return nil, apperrors.ErrInvalidRequest("chat", "You cannot start a chat with yourself")
	}
	exists, err := s.userRepo.Exists(db, receiverID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("user", "Receiver not found")
	}
	return s.FindOrCreateChat(ctx, db, callerID, receiverID)
}

func (s *ChatServiceImpl) GetUserChats(ctx context.Context, db *gorm.DB, userID uint) ([]*dto.ChatSummary, error) {
	chats, err := s.chatRepo.FindUserChats(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	otherIDs := make([]uint, 0, len(chats))
	for i := range chats {
		otherIDs = append(otherIDs, chats[i].OtherParticipant(userID))
	}
	users, err := s.userRepo.FindByIDs(db, otherIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.ChatSummary, 0, len(chats))
	for i := range chats {
		other := chats[i].OtherParticipant(userID)
		summary := &dto.ChatSummary{Chat: &chats[i], OtherUserID: other}
		if u, ok := users[other]; ok {
			summary.OtherUserName = u.DisplayName()
			summary.OtherPicture = u.ProfilePicture
		}
		out = append(out, summary)
	}
	return out, nil
}

// SendMessage stores the message and pushes new_message to the chat room and the receiver.
func (s *ChatServiceImpl) SendMessage(ctx context.Context, db *gorm.DB, senderID uint, req *dto.SendMessageRequest) (*chat.Message, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, apperrors.ErrInvalidRequest("chat", "Message cannot be empty")
	}

	c, err := s.loadChatFor(db, req.ChatID, senderID)
	if err != nil {
		return nil, err
	}

	msg := &chat.Message{
		ChatID:     c.ID,
		SenderID:   senderID,
		ReceiverID: c.OtherParticipant(senderID),
		Message:    text,
	}
	if err := s.chatRepo.CreateMessage(db, msg); err != nil {
		return nil, apperrors.InternalError(err)
	}

	event := &dto.ChatMessageEvent{Message: msg}
	if sender, err := s.userRepo.FindByID(db, senderID); err == nil {
		event.SenderName = sender.DisplayName()
	}
	s.pusher.PushChatMessage(ctx, c.ID, msg.ReceiverID, EventNewMessage, event)

	return msg, nil
}

func (s *ChatServiceImpl) GetMessages(ctx context.Context, db *gorm.DB, userID, chatID uint, page, pageSize int) (*dto.MessageListResponse, error) {
	if _, err := s.loadChatFor(db, chatID, userID); err != nil {
		return nil, err
	}

	messages, total, err := s.chatRepo.FindMessages(db, chatID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	return &dto.MessageListResponse{
		Messages: messages,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *ChatServiceImpl) IsParticipant(ctx context.Context, db *gorm.DB, chatID, userID uint) (bool, error) {
	c, err := s.chatRepo.FindByID(db, chatID)
	if err != nil {
		if errors.Is(err, repositories.ErrChatNotFound) {
			return false, nil
		}
		return false, err
	}
	return c.HasParticipant(userID), nil
}

func (s *ChatServiceImpl) loadChatFor(db *gorm.DB, chatID, userID uint) (*chat.Chat, error) {
	c, err := s.chatRepo.FindByID(db, chatID)
	if err != nil {
		if errors.Is(err, repositories.ErrChatNotFound) {
			return nil, apperrors.ErrNotFound(err, "chat", "Chat not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if !c.HasParticipant(userID) {
		return nil, apperrors.ErrChatAccessDenied
	}
	return c, nil
}
