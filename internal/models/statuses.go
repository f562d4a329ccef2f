package models

type UserRole string
type RatingStatus string

const (
	UserRoleArtist   UserRole = "artist"
	UserRoleEmployer UserRole = "employer"
	UserRoleAdmin    UserRole = "admin"

	RatingStatusPending   RatingStatus = "pending"
	RatingStatusCompleted RatingStatus = "completed"
)

// Message keys rendered by the client for key-based notifications.
const (
	NotificationKeyNewLike        = "notifications.new_like"
	NotificationKeyNewMatch       = "notifications.new_match"
	NotificationKeyNewApplication = "notifications.new_application"
	NotificationKeyNewComment     = "notifications.new_comment"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleArtist, UserRoleEmployer, UserRoleAdmin:
		return true
	}
	return false
}
