// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pokemart/storefront/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	ContextExternalID = "external_id"
	ContextUserEmail  = "user_email"
)

// RequireAuth validates the bearer token minted by the identity provider
// and stores the external subject and email in the request context.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ContextExternalID, claims.Subject)
		c.Set(ContextUserEmail, claims.Email)

		c.Next()
	}
}

// OptionalAuth populates identity context when a valid bearer token is
// present and passes the request through anonymously otherwise.
func OptionalAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err == nil {
			if claims, err := jwtManager.ValidateToken(tokenString); err == nil {
				c.Set(ContextExternalID, claims.Subject)
				c.Set(ContextUserEmail, claims.Email)
			}
		}
		c.Next()
	}
}
