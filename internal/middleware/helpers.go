// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// MustGetUserID gets the user ID from context or panics. Only use
// behind the Auth middleware.
func MustGetUserID(c *gin.Context) int64 {
	userID, exists := GetUserID(c)
	if !exists {
		panic("user_id not found in context")
	}
	return userID
}

// GetUserID gets the user ID from context.
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	userID, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return userID, true
}

// GetEmail gets the authenticated email from context.
func GetEmail(c *gin.Context) string {
	v, exists := c.Get("email")
	if !exists {
		return ""
	}

	email, ok := v.(string)
	if !ok {
		return ""
	}

	return email
}
