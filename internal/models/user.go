package models

type User struct {
	BaseModel
	Username       string   `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email          string   `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash   string   `gorm:"not null" json:"-"`
	Fullname       string   `gorm:"size:255;not null" json:"fullname"`
	Role           UserRole `gorm:"type:varchar(20);not null;index" json:"role"`
	Bio            string   `gorm:"type:text" json:"bio,omitempty"`
	Location       string   `gorm:"size:255" json:"location,omitempty"`
	ProfilePicture string   `gorm:"size:512" json:"profile_picture,omitempty"`

	// Relations
	ArtistProfile   *ArtistProfile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"artist_profile,omitempty"`
	EmployerProfile *EmployerProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"employer_profile,omitempty"`
}

// DisplayName is the name shown to other users: full name, falling back to username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Fullname != "" {
		return u.Fullname
	}
	return u.Username
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}
