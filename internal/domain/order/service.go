// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service errors
var (
	ErrOrderNotFound = errors.New("order not found")
)

// Service manages order persistence and state transitions
type Service struct {
	db *gorm.DB
}

// NewService creates a new order service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create persists a pending order with its frozen lines in one transaction
func (s *Service) Create(ctx context.Context, o *Order) error {
	o.Status = StatusPending
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetBySessionID returns the order correlated with a payment session
func (s *Service) GetBySessionID(ctx context.Context, sessionID string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Where("payment_session_id = ?", sessionID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by session: %w", err)
	}
	return &o, nil
}

// GetWithItems returns an order and its lines
func (s *Service) GetWithItems(ctx context.Context, orderID uint) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		First(&o, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// ListForUser returns the user's orders newest first, lines included
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// MarkPaid transitions the order for a payment session from pending to
// paid. The conditional update makes the transition single winner: the
// returned flag is true only for the call that actually flipped the row.
func (s *Service) MarkPaid(ctx context.Context, sessionID string) (*Order, bool, error) {
	return s.transition(ctx, sessionID, StatusPaid)
}

// MarkFailed transitions the order for a payment session from pending to failed
func (s *Service) MarkFailed(ctx context.Context, sessionID string) (*Order, bool, error) {
	return s.transition(ctx, sessionID, StatusFailed)
}

func (s *Service) transition(ctx context.Context, sessionID, status string) (*Order, bool, error) {
	result := s.db.WithContext(ctx).
		Model(&Order{}).
		Where("payment_session_id = ? AND status = ?", sessionID, StatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("now()"),
		})
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to transition order: %w", result.Error)
	}

	// Re-fetch with lines loaded; downstream consumers (confirmation
	// email) render them
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("payment_session_id = ?", sessionID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrOrderNotFound
		}
		return nil, false, fmt.Errorf("failed to get order by session: %w", err)
	}

	return &o, result.RowsAffected > 0, nil
}

// IsEventProcessed reports whether a webhook event's effect has already
// been applied
func (s *Service) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&ProcessedEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check event ledger: %w", err)
	}
	return count > 0, nil
}

// MarkEventProcessed records a webhook event in the idempotency ledger.
// Concurrent deliveries of the same event collapse into one row.
func (s *Service) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	entry := ProcessedEvent{EventID: eventID, EventType: eventType}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}
