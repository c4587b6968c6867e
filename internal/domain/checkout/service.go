// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/pokemart/storefront/internal/config"
	"github.com/pokemart/storefront/internal/domain/cart"
	"github.com/pokemart/storefront/internal/domain/order"
	"github.com/pokemart/storefront/internal/domain/payment"
	"github.com/sirupsen/logrus"
)

// Service errors
var (
	ErrEmptyCart = errors.New("cart is empty")
)

// Result is what the handler returns to the client after starting checkout
type Result struct {
	Order       *order.Order
	RedirectURL string
}

// Service drives the checkout flow: snapshot the cart, open a hosted
// payment session and persist the pending order. The provider call happens
// before the order insert so a failed call leaves nothing behind; an insert
// failure after the call only strands an unpaid provider session, which
// expires on its own.
type Service struct {
	cfg    *config.Config
	carts  *cart.Service
	orders *order.Service
	stripe *payment.Client
	logger *logrus.Logger
}

// NewService creates a checkout service
func NewService(cfg *config.Config, carts *cart.Service, orders *order.Service, stripe *payment.Client, logger *logrus.Logger) *Service {
	return &Service{
		cfg:    cfg,
		carts:  carts,
		orders: orders,
		stripe: stripe,
		logger: logger,
	}
}

// Begin starts checkout for a cart. userID is nil for guest checkout.
func (s *Service) Begin(ctx context.Context, cartID uint, userID *uint) (*Result, error) {
	items, err := s.carts.Items(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	unitPrice := s.cfg.Checkout.UnitPriceCents
	currency := s.cfg.Checkout.Currency

	lines := make([]payment.LineItem, 0, len(items))
	orderItems := make([]order.OrderItem, 0, len(items))
	var total int64
	for _, item := range items {
		lines = append(lines, payment.LineItem{
			Name:      item.Name,
			UnitPrice: unitPrice,
			Currency:  currency,
			Quantity:  item.Quantity,
		})
		orderItems = append(orderItems, order.OrderItem{
			PokemonID: item.PokemonID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		})
		total += unitPrice * int64(item.Quantity)
	}

	metadata := map[string]string{
		"cart_id": strconv.FormatUint(uint64(cartID), 10),
	}
	if userID != nil {
		metadata["user_id"] = strconv.FormatUint(uint64(*userID), 10)
	}

	session, err := s.stripe.CreateCheckoutSession(ctx, lines, metadata, s.cfg.CheckoutSuccessURL(), s.cfg.CheckoutCancelURL())
	if err != nil {
		return nil, err
	}

	o := &order.Order{
		PaymentSessionID: session.ID,
		UserID:           userID,
		CartID:           cartID,
		TotalAmount:      total,
		Currency:         currency,
		Items:            orderItems,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		s.logger.WithError(err).WithField("session_id", session.ID).Error("Orphaned payment session: order insert failed")
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":   o.ID,
		"session_id": session.ID,
		"total":      total,
	}).Info("Checkout session created")

	return &Result{Order: o, RedirectURL: session.URL}, nil
}
