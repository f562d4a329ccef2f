package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/auth"
	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/repositories"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// SeedAdmin creates the first admin when no admin exists yet.
	SeedAdmin(ctx context.Context, db *gorm.DB, email, password string) error
}

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	tokens      *auth.TokenManager
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	tokens *auth.TokenManager,
) AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokens:      tokens,
	}
}

// Register creates the user and the profile matching its role in one transaction.
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	if req.Role != models.UserRoleArtist && req.Role != models.UserRoleEmployer {
		return nil, apperrors.ErrInvalidRequest("auth", "role must be artist or employer")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.userRepo.ExistsByEmailOrUsername(db, email, req.Username)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: hash,
		Fullname:     strings.TrimSpace(req.Fullname),
		Role:         req.Role,
		Location:     req.Location,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}
		switch user.Role {
		case models.UserRoleArtist:
			profile := &models.ArtistProfile{UserID: user.ID, IsStudent: req.IsStudent}
			if err := s.profileRepo.CreateArtistProfile(tx, profile); err != nil {
				return err
			}
			user.ArtistProfile = profile
		case models.UserRoleEmployer:
			profile := &models.EmployerProfile{UserID: user.ID, CompanyName: req.CompanyName}
			if err := s.profileRepo.CreateEmployerProfile(tx, profile); err != nil {
				return err
			}
			user.EmployerProfile = profile
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user registered", "new_user_id", user.ID, "role", string(user.Role))
	return dto.NewUserResponse(user, true), nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "login failed: wrong password", "target_user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(user, true),
	}, nil
}

func (s *AuthServiceImpl) SeedAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		logger.CtxWarn(ctx, "admin credentials not configured, skipping admin seed")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		_, err := s.userRepo.FindFirstByRole(tx, models.UserRoleAdmin)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return err
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		admin := &models.User{
			Username:     "admin",
			Email:        strings.ToLower(email),
			PasswordHash: hash,
			Fullname:     "Administrator",
			Role:         models.UserRoleAdmin,
		}
		if err := s.userRepo.Create(tx, admin); err != nil {
			return err
		}
		logger.CtxInfo(ctx, "first admin created", "email", admin.Email)
		return nil
	})
}
