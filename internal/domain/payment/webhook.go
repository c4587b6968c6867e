// internal/domain/payment/webhook.go
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pokemart/storefront/internal/domain/cart"
	"github.com/pokemart/storefront/internal/domain/order"
	"github.com/sirupsen/logrus"
)

// Webhook event types the processor acts on
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// Processor errors
var (
	ErrMalformedEvent = errors.New("malformed webhook event")
)

// Event is the subset of a Stripe event envelope the processor needs
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// SessionID returns the checkout session the event refers to
func (e *Event) SessionID() string {
	return e.Data.Object.ID
}

// CartID returns the cart correlation key carried in session metadata
func (e *Event) CartID() (uint, bool) {
	raw, ok := e.Data.Object.Metadata["cart_id"]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// Notifier sends the order confirmation after a successful payment
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, o *order.Order) error
}

// Processor applies webhook deliveries to orders. Every path is idempotent:
// the signature gate rejects forgeries, the event ledger absorbs redeliveries
// and the conditional status transition makes concurrent deliveries of the
// same session single winner.
type Processor struct {
	orders    *order.Service
	carts     *cart.Service
	notifier  Notifier
	logger    *logrus.Logger
	secret    string
	tolerance time.Duration
}

// NewProcessor creates a webhook processor
func NewProcessor(orders *order.Service, carts *cart.Service, notifier Notifier, logger *logrus.Logger, secret string, tolerance time.Duration) *Processor {
	return &Processor{
		orders:    orders,
		carts:     carts,
		notifier:  notifier,
		logger:    logger,
		secret:    secret,
		tolerance: tolerance,
	}
}

// ParseEvent decodes a raw webhook payload into an Event
func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if event.ID == "" || event.Type == "" {
		return nil, fmt.Errorf("%w: missing id or type", ErrMalformedEvent)
	}
	return &event, nil
}

// HandleDelivery verifies and applies one raw webhook delivery
func (p *Processor) HandleDelivery(ctx context.Context, payload []byte, signatureHeader string) error {
	if err := VerifySignature(payload, signatureHeader, p.secret, p.tolerance, time.Now()); err != nil {
		return err
	}

	event, err := ParseEvent(payload)
	if err != nil {
		return err
	}

	return p.HandleEvent(ctx, event)
}

// HandleEvent applies one verified event. Unrecognized event types are
// acknowledged without effect.
func (p *Processor) HandleEvent(ctx context.Context, event *Event) error {
	log := p.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"session_id": event.SessionID(),
	})

	switch event.Type {
	case EventCheckoutCompleted, EventCheckoutExpired:
	default:
		log.Debug("Ignoring webhook event type")
		return nil
	}

	processed, err := p.orders.IsEventProcessed(ctx, event.ID)
	if err != nil {
		return err
	}
	if processed {
		log.Info("Webhook event already processed")
		return nil
	}

	if event.SessionID() == "" {
		return fmt.Errorf("%w: missing session id", ErrMalformedEvent)
	}

	switch event.Type {
	case EventCheckoutCompleted:
		err = p.applyCompleted(ctx, event, log)
	case EventCheckoutExpired:
		err = p.applyExpired(ctx, event, log)
	}
	if err != nil {
		return err
	}

	return p.orders.MarkEventProcessed(ctx, event.ID, event.Type)
}

func (p *Processor) applyCompleted(ctx context.Context, event *Event, log *logrus.Entry) error {
	o, transitioned, err := p.orders.MarkPaid(ctx, event.SessionID())
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			// Could be replication lag on a just-created order; fail the
			// delivery so the provider retries
			log.Warn("Webhook event for unknown payment session")
		}
		return err
	}
	if !transitioned {
		log.WithField("status", o.Status).Info("Order already in terminal state")
		return nil
	}

	log.WithField("order_id", o.ID).Info("Order marked paid")

	// Cart cleanup is best effort; the order is already settled
	if cartID, ok := event.CartID(); ok {
		if err := p.carts.ClearIfPresent(ctx, cartID); err != nil {
			log.WithError(err).Warn("Failed to clear cart after payment")
		}
	}

	if p.notifier != nil {
		go func(o *order.Order) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := p.notifier.SendOrderConfirmation(ctx, o); err != nil {
				p.logger.WithError(err).WithField("order_id", o.ID).Warn("Failed to send order confirmation")
			}
		}(o)
	}

	return nil
}

func (p *Processor) applyExpired(ctx context.Context, event *Event, log *logrus.Entry) error {
	o, transitioned, err := p.orders.MarkFailed(ctx, event.SessionID())
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			log.Warn("Webhook event for unknown payment session")
		}
		return err
	}
	if !transitioned {
		log.WithField("status", o.Status).Info("Order already in terminal state")
		return nil
	}

	log.WithField("order_id", o.ID).Info("Order marked failed")
	return nil
}
