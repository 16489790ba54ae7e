package api

import (
	"net/http"
	"strings"

	"github.com/beratbaran/flyticket/internal/service/auth"
	"github.com/gin-gonic/gin"
)

// RequireAuth verifies the bearer token on privileged routes and stores
// the admin claims in the request context.
func RequireAuth(service auth.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := service.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("admin", claims)
		c.Next()
	}
}
