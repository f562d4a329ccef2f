package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/repositories"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/internal/storage"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

// UploadPolicy limits profile picture uploads.
type UploadPolicy struct {
	MaxSize      int64
	AllowedTypes []string
}

func (p UploadPolicy) allows(contentType string) bool {
	if len(p.AllowedTypes) == 0 {
		return strings.HasPrefix(contentType, "image/")
	}
	for _, t := range p.AllowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

type UserService interface {
	GetMe(ctx context.Context, db *gorm.DB, userID uint) (*dto.UserResponse, error)
	GetUser(ctx context.Context, db *gorm.DB, requesterID, userID uint) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, db *gorm.DB, userID uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	UploadProfilePicture(ctx context.Context, db *gorm.DB, userID uint, file *multipart.FileHeader) (*dto.UserResponse, error)

	// Admin
	ListUsers(ctx context.Context, db *gorm.DB, page, pageSize int) (*dto.UserListResponse, error)
	DeleteUser(ctx context.Context, db *gorm.DB, adminID, userID uint) error
}

type UserServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	storage     storage.Storage
	policy      UploadPolicy
}

func NewUserService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	store storage.Storage,
	policy UploadPolicy,
) UserService {
	return &UserServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		storage:     store,
		policy:      policy,
	}
}

func (s *UserServiceImpl) GetMe(ctx context.Context, db *gorm.DB, userID uint) (*dto.UserResponse, error) {
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user, true), nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, db *gorm.DB, requesterID, userID uint) (*dto.UserResponse, error) {
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user, requesterID == userID), nil
}

func (s *UserServiceImpl) UpdateMe(ctx context.Context, db *gorm.DB, userID uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}

	userFields := map[string]interface{}{}
	if req.Fullname != nil {
		userFields["fullname"] = strings.TrimSpace(*req.Fullname)
	}
	if req.Bio != nil {
		userFields["bio"] = *req.Bio
	}
	if req.Location != nil {
		userFields["location"] = strings.TrimSpace(*req.Location)
	}

	profileFields := map[string]interface{}{}
	switch user.Role {
	case models.UserRoleArtist:
		if req.Specialty != nil {
			profileFields["specialty"] = *req.Specialty
		}
		if req.IsStudent != nil {
			profileFields["is_student"] = *req.IsStudent
		}
		if req.Portfolio != nil {
			profileFields["portfolio"] = *req.Portfolio
		}
	case models.UserRoleEmployer:
		if req.CompanyName != nil {
			profileFields["company_name"] = *req.CompanyName
		}
		if req.Website != nil {
			profileFields["website"] = *req.Website
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.UpdateFields(tx, userID, userFields); err != nil {
			return err
		}
		if len(profileFields) == 0 {
			return nil
		}
		if user.Role == models.UserRoleArtist {
			return s.profileRepo.UpdateArtistProfile(tx, userID, profileFields)
		}
		return s.profileRepo.UpdateEmployerProfile(tx, userID, profileFields)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.GetMe(ctx, db, userID)
}

// UploadProfilePicture stores the image and replaces the previous one.
func (s *UserServiceImpl) UploadProfilePicture(ctx context.Context, db *gorm.DB, userID uint, file *multipart.FileHeader) (*dto.UserResponse, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError("profile picture file is required")
	}
	if s.policy.MaxSize > 0 && file.Size > s.policy.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperrors.InternalError(err)
	}
	contentType := http.DetectContentType(head[:n])
	if !s.policy.allows(contentType) {
		return nil, apperrors.ErrInvalidFileType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.InternalError(err)
	}

	key := fmt.Sprintf("profile-pictures/%d/%s%s", userID, uuid.NewString(), strings.ToLower(filepath.Ext(file.Filename)))
	if err := s.storage.Save(ctx, key, src, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}
	url := s.storage.GetURL(key)

	if err := s.userRepo.UpdateFields(db, userID, map[string]interface{}{"profile_picture": url}); err != nil {
		_ = s.storage.Delete(ctx, key)
		return nil, apperrors.InternalError(err)
	}

	if old := s.keyFromURL(user.ProfilePicture); old != "" {
		if err := s.storage.Delete(ctx, old); err != nil {
			logger.CtxWithError(ctx, "failed to delete old profile picture", err, "key", old)
		}
	}

	user.ProfilePicture = url
	return dto.NewUserResponse(user, true), nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, db *gorm.DB, page, pageSize int) (*dto.UserListResponse, error) {
	users, total, err := s.userRepo.FindAll(db, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.UserListResponse{
		Users:    make([]*dto.UserResponse, 0, len(users)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range users {
		resp.Users = append(resp.Users, dto.NewUserResponse(&users[i], true))
	}
	return resp, nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, db *gorm.DB, adminID, userID uint) error {
	if adminID == userID {
		return apperrors.ErrInvalidOperation("user", "Admins cannot delete themselves")
	}
	if err := s.userRepo.Delete(db, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err, "user", "User not found")
		}
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "user deleted by admin", "target_user_id", userID)
	return nil
}

func (s *UserServiceImpl) findUser(db *gorm.DB, userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// keyFromURL recovers the storage key of a URL built by GetURL.
func (s *UserServiceImpl) keyFromURL(url string) string {
	if url == "" {
		return ""
	}
	idx := strings.Index(url, "profile-pictures/")
	if idx < 0 {
		return ""
	}
	return url[idx:]
}
