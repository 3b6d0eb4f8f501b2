package middleware

import "github.com/gin-gonic/gin"

// contextKey defines a type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey holds the authenticated user's id (string).
	UserIDKey contextKey = "user_id"
)

// UserID returns the id set by AuthMiddleware, or "" on unauthenticated routes.
func UserID(c *gin.Context) string {
	return c.GetString(string(UserIDKey))
}
