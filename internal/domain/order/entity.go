// internal/domain/order/entity.go
package order

import "time"

// Order status constants. Pending orders move to exactly one terminal state.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

// Order is a point-in-time snapshot of a cart handed to the payment
// provider. PaymentSessionID is the provider's checkout session ID and the
// correlation key for webhook events.
type Order struct {
	ID               uint        `json:"id" gorm:"primaryKey"`
	PaymentSessionID string      `json:"payment_session_id" gorm:"uniqueIndex;not null;size:255"`
	UserID           *uint       `json:"user_id" gorm:"index"`
	CartID           uint        `json:"cart_id" gorm:"index;not null"`
	Status           string      `json:"status" gorm:"not null;default:'pending';size:20"`
	TotalAmount      int64       `json:"total_amount" gorm:"not null"`
	Currency         string      `json:"currency" gorm:"not null;size:3"`
	Items            []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsTerminal reports whether the order has reached a final state
func (o *Order) IsTerminal() bool {
	return o.Status == StatusPaid || o.Status == StatusFailed
}

// OrderItem is a frozen order line. Name and unit price are copied at
// checkout time so later catalog edits cannot rewrite history.
type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"index;not null"`
	PokemonID uint      `json:"pokemon_id" gorm:"not null"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	UnitPrice int64     `json:"unit_price" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// ProcessedEvent is the idempotency ledger for webhook deliveries. A row
// exists once the event's effect has been applied.
type ProcessedEvent struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	EventID     string    `json:"event_id" gorm:"uniqueIndex;not null;size:255"`
	EventType   string    `json:"event_type" gorm:"not null;size:100"`
	ProcessedAt time.Time `json:"processed_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for the ProcessedEvent model
func (ProcessedEvent) TableName() string {
	return "processed_events"
}
