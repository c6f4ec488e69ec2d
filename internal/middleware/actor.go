package middleware

import "github.com/gin-gonic/gin"

// ActorHeader carries the id of the user on whose behalf a request is made.
// The engine does no authentication; an upstream gateway is expected to set it.
const ActorHeader = "X-User-ID"

// userIDKey is the key used to store the acting user's ID in the Gin context.
const userIDKey = contextKey("userID")

// SystemActor is recorded in audit fields when no actor header is present.
const SystemActor = "system"

// ActorMiddleware copies the actor header into the Gin context.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(ActorHeader); userID != "" {
			c.Set(string(userIDKey), userID)
		}
		c.Next()
	}
}

// GetUserIDFromContext retrieves the acting user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := userIDVal.(string)
	return userID, ok && userID != ""
}

// ActorOrSystem returns the acting user ID, falling back to SystemActor.
func ActorOrSystem(c *gin.Context) string {
	if userID, ok := GetUserIDFromContext(c); ok {
		return userID
	}
	return SystemActor
}
