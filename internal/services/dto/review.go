package dto

import "time"

type CreateReviewRequest struct {
	ChatID  uint   `json:"chat_id" validate:"required,min=1"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ID             uint      `json:"review_id"`
	ChatID         uint      `json:"chat_id"`
	ReviewerID     uint      `json:"reviewer_id"`
	ReviewerName   string    `json:"reviewer_name,omitempty"`
	ReviewedUserID uint      `json:"reviewed_user_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type UserReviewsResponse struct {
	Reviews       []*ReviewResponse `json:"reviews"`
	AverageRating float64           `json:"average_rating"`
	Count         int64             `json:"count"`
}
