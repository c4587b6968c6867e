// internal/interfaces/http/handlers/webhook.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pokemart/storefront/internal/domain/payment"
	"github.com/pokemart/storefront/internal/interfaces/http/middleware"
	"github.com/sirupsen/logrus"
)

// maxWebhookBody caps webhook payload size
const maxWebhookBody = 1 << 20

// WebhookHandler handles payment provider webhook deliveries
type WebhookHandler struct {
	processor *payment.Processor
	logger    *logrus.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(processor *payment.Processor, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		logger:    logger,
	}
}

// HandleStripe handles POST /webhooks/stripe. Responses drive provider
// redelivery: 2xx acknowledges, 4xx drops bad deliveries, 5xx asks for a
// retry after transient failures.
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read request body",
		})
		return
	}

	err = h.processor.HandleDelivery(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSignature):
			middleware.WebhookEventsTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid signature",
			})
		case errors.Is(err, payment.ErrMalformedEvent):
			middleware.WebhookEventsTotal.WithLabelValues("malformed").Inc()
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Malformed event",
			})
		default:
			middleware.WebhookEventsTotal.WithLabelValues("error").Inc()
			h.logger.WithError(err).Error("Webhook processing failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Processing failed",
			})
		}
		return
	}

	middleware.WebhookEventsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"received": true,
	})
}
