// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pokemart/storefront/internal/config"
)

// ContextSessionToken is the context key for the anonymous session token
const ContextSessionToken = "session_token"

// Session ensures every request carries an anonymous session token. The
// token is an opaque UUID in a cookie; the cart binding behind it lives in
// Redis, so the cookie itself holds nothing worth forging.
func Session(cfg *config.Config) gin.HandlerFunc {
	maxAge := int(cfg.Session.TTL.Seconds())
	secure := cfg.IsProduction()

	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.Session.CookieName)
		if err != nil || token == "" {
			token = uuid.NewString()
			c.SetCookie(cfg.Session.CookieName, token, maxAge, "/", "", secure, true)
		}

		c.Set(ContextSessionToken, token)
		c.Next()
	}
}
