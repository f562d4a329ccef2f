package dto

import "time"

type CreateCommentRequest struct {
	Comment string `json:"comment" validate:"required,notblank,max=2000"`
}

type CommentResponse struct {
	ID            uint      `json:"comment_id"`
	ProfileUserID uint      `json:"profile_user_id"`
	CommenterID   uint      `json:"commenter_id"`
	CommenterName string    `json:"commenter_name"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}
