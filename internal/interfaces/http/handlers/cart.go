// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pokemart/storefront/internal/domain/cart"
	"github.com/pokemart/storefront/internal/domain/identity"
	"github.com/pokemart/storefront/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService     *cart.Service
	identityService *identity.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, identityService *identity.Service) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		identityService: identityService,
	}
}

// AddItemRequest is the body for POST /cart/items
type AddItemRequest struct {
	PokemonID uint `json:"pokemon_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// SetQuantityRequest is the body for PUT /cart/items/:pokemonId
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	resolved, _, err := resolveCart(c, h.identityService, h.cartService)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve cart",
		})
		return
	}

	items, err := h.cartService.Items(c.Request.Context(), resolved.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"cart_id": resolved.ID,
			"items":   items,
		},
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resolved, _, err := resolveCart(c, h.identityService, h.cartService)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve cart",
		})
		return
	}

	if err := h.cartService.AddItem(c.Request.Context(), resolved.ID, req.PokemonID, req.Quantity); err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
	})
}

// UpdateItem handles PUT /cart/items/:pokemonId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	pokemonID, err := strconv.ParseUint(c.Param("pokemonId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pokemon ID",
		})
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resolved, _, err := resolveCart(c, h.identityService, h.cartService)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve cart",
		})
		return
	}

	if err := h.cartService.SetQuantity(c.Request.Context(), resolved.ID, uint(pokemonID), req.Quantity); err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated",
	})
}

// RemoveItem handles DELETE /cart/items/:pokemonId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	pokemonID, err := strconv.ParseUint(c.Param("pokemonId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pokemon ID",
		})
		return
	}

	resolved, _, err := resolveCart(c, h.identityService, h.cartService)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve cart",
		})
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), resolved.ID, uint(pokemonID)); err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed",
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	resolved, _, err := resolveCart(c, h.identityService, h.cartService)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve cart",
		})
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), resolved.ID); err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}

// MergeCart handles POST /cart/merge. Requires authentication; folds the
// guest cart from the session into the user's cart.
func (h *CartHandler) MergeCart(c *gin.Context) {
	user, err := resolveUser(c, h.identityService)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	token := c.GetString(middleware.ContextSessionToken)
	merged, err := h.cartService.MergeGuestIntoUser(c.Request.Context(), token, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to merge cart",
		})
		return
	}

	items, err := h.cartService.Items(c.Request.Context(), merged.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart merged",
		"data": gin.H{
			"cart_id": merged.ID,
			"items":   items,
		},
	})
}

func (h *CartHandler) writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
	case errors.Is(err, cart.ErrUnknownPokemon):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown pokemon"})
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart operation failed"})
	}
}
