package contextkeys

type contextKey string

// DBContextKey holds the *gorm.DB a request should use (a transaction in tests).
const DBContextKey = contextKey("db")

// Keys set on *gin.Context by the auth middleware.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)
