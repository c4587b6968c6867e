// internal/interfaces/http/handlers/helpers.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/pokemart/storefront/internal/domain/cart"
	"github.com/pokemart/storefront/internal/domain/identity"
	"github.com/pokemart/storefront/internal/interfaces/http/middleware"
)

// resolveUser returns the local user for an authenticated request, or nil
// for anonymous requests
func resolveUser(c *gin.Context, users *identity.Service) (*identity.User, error) {
	externalID := c.GetString(middleware.ContextExternalID)
	if externalID == "" {
		return nil, nil
	}
	email := c.GetString(middleware.ContextUserEmail)
	return users.GetOrCreateUser(c.Request.Context(), externalID, email)
}

// resolveCart returns the acting cart for a request: the user's cart when
// authenticated, the session-bound guest cart otherwise
func resolveCart(c *gin.Context, users *identity.Service, carts *cart.Service) (*cart.Cart, *identity.User, error) {
	user, err := resolveUser(c, users)
	if err != nil {
		return nil, nil, err
	}

	if user != nil {
		resolved, err := carts.ResolveForUser(c.Request.Context(), user.ID)
		return resolved, user, err
	}

	token := c.GetString(middleware.ContextSessionToken)
	resolved, err := carts.ResolveGuest(c.Request.Context(), token)
	return resolved, nil, err
}
