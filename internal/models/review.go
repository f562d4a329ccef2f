package models

// Review is one participant's rating of the other after a chat collaboration.
type Review struct {
	BaseModel
	ChatID         uint   `gorm:"not null;uniqueIndex:idx_reviews_chat_reviewer" json:"chat_id"`
	ReviewerID     uint   `gorm:"not null;uniqueIndex:idx_reviews_chat_reviewer" json:"reviewer_id"`
	ReviewedUserID uint   `gorm:"not null;index" json:"reviewed_user_id"`
	Rating         int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment        string `gorm:"type:text" json:"comment,omitempty"`

	Reviewer *User `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE" json:"reviewer,omitempty"`
}
