package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

// contextKey is the private key type for request-context values.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey   = contextKey("logger")
	userIDKey      = contextKey("userID")
	currentUserKey = contextKey("currentUser")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		userIDVal := c.Request.Context().Value(userIDKey)
		if userIDVal != nil {
			return userIDVal.(string), true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}

// GetCurrentUserFromContext retrieves the resolved caller profile stored by
// the role gate. The profile is resolved fresh on every request; there is no
// shared current-user singleton.
func GetCurrentUserFromContext(c *gin.Context) (*domain.User, bool) {
	val := c.Request.Context().Value(currentUserKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}

// WithCurrentUser returns a context carrying the resolved caller profile.
func WithCurrentUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}
