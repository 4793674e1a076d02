package middleware

import "github.com/gin-gonic/gin"

// clientIDKey is the key used to store the authenticated API client's ID.
const clientIDKey = contextKey("clientID")

// GetClientIDFromContext retrieves the authenticated client ID from the Gin
// context, falling back to the request context.
func GetClientIDFromContext(c *gin.Context) (string, bool) {
	if val, exists := c.Get(string(clientIDKey)); exists {
		clientID, ok := val.(string)
		return clientID, ok
	}
	if val, ok := c.Request.Context().Value(clientIDKey).(string); ok {
		return val, true
	}
	return "", false
}
