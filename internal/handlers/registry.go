package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	LikeHandler         *LikeHandler
	ChatHandler         *ChatHandler
	NotificationHandler *NotificationHandler
	JobHandler          *JobHandler
	CommentHandler      *CommentHandler
	ReviewHandler       *ReviewHandler
	AdminHandler        *AdminHandler
	HealthHandler       *HealthHandler
}
