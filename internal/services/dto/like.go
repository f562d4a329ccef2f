package dto

type ToggleLikeResponse struct {
	Message string `json:"message"`
	Liked   bool   `json:"liked"`
}

type LikeStatusResponse struct {
	Liked bool `json:"liked"`
}

type LikeCountResponse struct {
	UserID uint  `json:"user_id"`
	Count  int64 `json:"count"`
}
