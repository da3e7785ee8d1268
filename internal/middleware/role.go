package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/laneway/backend/pkg/response"
)

// RequireRole returns a middleware that allows only the given roles.
// Must run after JWT.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role, _ := c.MustGet(ContextUserRole).(string)
		if !allowed[role] {
			response.Forbidden(c, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}
