package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portal-chat/auth"
)

const claimsKey = "claims"

// JWTAuth validates the Bearer token and stores the session claims in the
// request context. Authorization decisions stay in the handlers.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header must be: Bearer <token>"})
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// currentUser extracts the claims placed by JWTAuth. Handlers behind the
// protected group can rely on it being present.
func currentUser(c *gin.Context) (*auth.CustomClaims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.CustomClaims)
	return claims, ok
}
