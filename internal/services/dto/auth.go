package dto

import (
	"time"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
)

type RegisterRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=64,alphanum"`
	Email    string          `json:"email" validate:"required,email,max=255"`
	Password string          `json:"password" validate:"required,min=8,max=128"`
	Fullname string          `json:"fullname" validate:"required,notblank,max=255"`
	Role     models.UserRole `json:"role" validate:"required,is-signup-role"`
	Location string          `json:"location,omitempty" validate:"omitempty,max=255"`

	// artist only
	IsStudent bool `json:"is_student,omitempty"`
	// employer only
	CompanyName string `json:"company_name,omitempty" validate:"omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
}
