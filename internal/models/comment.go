package models

// Comment is left by any user on an artist's profile.
type Comment struct {
	BaseModel
	ProfileUserID uint   `gorm:"not null;index" json:"profile_user_id"`
	CommenterID   uint   `gorm:"not null;index" json:"commenter_id"`
	Content       string `gorm:"type:text;not null" json:"comment"`

	Commenter *User `gorm:"foreignKey:CommenterID;constraint:OnDelete:CASCADE" json:"commenter,omitempty"`
}
