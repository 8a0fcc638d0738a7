package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SweepAuthMiddleware creates a Gin middleware that validates the X-Sweep-Token
// header against the configured sweep token. The sweep endpoint settles
// budgets for every owner, so it is never exposed to end-user JWTs.
func SweepAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": gin.H{"code": "SWEEP_NOT_CONFIGURED", "message": "Sweep endpoint is not configured"}})
			return
		}
		got := c.GetHeader("X-Sweep-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "INVALID_SWEEP_TOKEN", "message": "Invalid or missing sweep token"}})
			return
		}
		c.Next()
	}
}
