// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pokemart/storefront/internal/domain/cart"
	"github.com/pokemart/storefront/internal/domain/checkout"
	"github.com/pokemart/storefront/internal/domain/identity"
	"github.com/pokemart/storefront/internal/domain/payment"
	"github.com/pokemart/storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	cartService     *cart.Service
	identityService *identity.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, cartService *cart.Service, identityService *identity.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		cartService:     cartService,
		identityService: identityService,
	}
}

// BeginCheckout handles POST /checkout. Snapshots the acting cart and
// returns the hosted payment page URL to redirect the client to.
func (h *CheckoutHandler) BeginCheckout(c *gin.Context) {
	resolved, user, err := resolveCart(c, h.identityService, h.cartService)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve cart",
		})
		return
	}

	var userID *uint
	if user != nil {
		userID = &user.ID
	}

	result, err := h.checkoutService.Begin(c.Request.Context(), resolved.ID, userID)
	if err != nil {
		middleware.CheckoutSessionsTotal.WithLabelValues("error").Inc()
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		case errors.Is(err, payment.ErrProvider):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment provider unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start checkout"})
		}
		return
	}

	middleware.CheckoutSessionsTotal.WithLabelValues("created").Inc()

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"order_id":     result.Order.ID,
			"session_id":   result.Order.PaymentSessionID,
			"redirect_url": result.RedirectURL,
			"total_amount": result.Order.TotalAmount,
			"currency":     result.Order.Currency,
		},
	})
}
