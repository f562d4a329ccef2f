package dto

import (
	"time"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
)

// UserResponse is the public view of a user; Email is only filled for the owner and admins.
type UserResponse struct {
	ID              uint                    `json:"user_id"`
	Username        string                  `json:"username"`
	Email           string                  `json:"email,omitempty"`
	Fullname        string                  `json:"fullname"`
	Role            models.UserRole         `json:"role"`
	Bio             string                  `json:"bio,omitempty"`
	Location        string                  `json:"location,omitempty"`
	ProfilePicture  string                  `json:"profile_picture,omitempty"`
	ArtistProfile   *models.ArtistProfile   `json:"artist_profile,omitempty"`
	EmployerProfile *models.EmployerProfile `json:"employer_profile,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

type UpdateUserRequest struct {
	Fullname *string `json:"fullname,omitempty" validate:"omitempty,notblank,max=255"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=255"`

	// artist profile
	Specialty *string `json:"specialty,omitempty" validate:"omitempty,max=255"`
	IsStudent *bool   `json:"is_student,omitempty"`
	Portfolio *string `json:"portfolio,omitempty" validate:"omitempty,url,max=512"`

	// employer profile
	CompanyName *string `json:"company_name,omitempty" validate:"omitempty,max=255"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url,max=255"`
}

type UserListResponse struct {
	Users    []*UserResponse `json:"users"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func NewUserResponse(u *models.User, withEmail bool) *UserResponse {
	if u == nil {
		return nil
	}
	resp := &UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Fullname:        u.Fullname,
		Role:            u.Role,
		Bio:             u.Bio,
		Location:        u.Location,
		ProfilePicture:  u.ProfilePicture,
		ArtistProfile:   u.ArtistProfile,
		EmployerProfile: u.EmployerProfile,
		CreatedAt:       u.CreatedAt,
	}
	if withEmail {
		resp.Email = u.Email
	}
	return resp
}
