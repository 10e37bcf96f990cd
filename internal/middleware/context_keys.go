package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey        = contextKey("userID")
	organizationsKey = contextKey("organizations")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
		return userID, true
	}
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := userIDVal.(string)
	return userID, ok && userID != ""
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func organizationsFromContext(c *gin.Context) []string {
	orgs, _ := c.Request.Context().Value(organizationsKey).([]string)
	return orgs
}
