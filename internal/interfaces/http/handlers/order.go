// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pokemart/storefront/internal/domain/identity"
	"github.com/pokemart/storefront/internal/domain/order"
	"github.com/pokemart/storefront/internal/pkg/pdf"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService    *order.Service
	identityService *identity.Service
	pdfGenerator    *pdf.Generator
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, identityService *identity.Service, pdfGenerator *pdf.Generator) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		identityService: identityService,
		pdfGenerator:    pdfGenerator,
	}
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	user, err := resolveUser(c, h.identityService)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	orders, err := h.orderService.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": orders,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": o,
	})
}

// GetOrderBySession handles GET /orders/session/:sessionId. Used by the
// post-payment success page, which only knows the checkout session ID.
func (h *OrderHandler) GetOrderBySession(c *gin.Context) {
	sessionID := c.Param("sessionId")

	o, err := h.orderService.GetBySessionID(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"order_id":     o.ID,
			"status":       o.Status,
			"total_amount": o.TotalAmount,
			"currency":     o.Currency,
		},
	})
}

// GetReceipt handles GET /orders/:id/receipt, returning a PDF
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	o, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	if o.Status != order.StatusPaid {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Receipt is only available for paid orders",
		})
		return
	}

	receipt, err := h.pdfGenerator.GenerateReceipt(o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%d.pdf", o.ID))
	c.Data(http.StatusOK, "application/pdf", receipt)
}

// ownedOrder loads the order from the :id param and enforces ownership
func (h *OrderHandler) ownedOrder(c *gin.Context) (*order.Order, bool) {
	user, err := resolveUser(c, h.identityService)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return nil, false
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return nil, false
	}

	o, err := h.orderService.GetWithItems(c.Request.Context(), uint(orderID))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get order",
		})
		return nil, false
	}

	if o.UserID == nil || *o.UserID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return nil, false
	}

	return o, true
}
