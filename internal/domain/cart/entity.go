// internal/domain/cart/entity.go
package cart

import (
	"time"

	"gorm.io/gorm"
)

// Cart represents a shopping cart. OwnerUserID is NULL for guest carts;
// a partial unique index keeps at most one live cart per user. Carts are
// soft-deleted so a retried merge can recognize an already consumed guest
// cart instead of double counting it.
type Cart struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	OwnerUserID *uint          `json:"owner_user_id" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for the Cart model
func (Cart) TableName() string {
	return "carts"
}

// CartItem is one line of a cart. No soft delete here: the unique index on
// (cart_id, pokemon_id) is the concurrency mechanism for folding duplicate
// adds, and a tombstoned row would break it.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CartID    uint      `json:"cart_id" gorm:"uniqueIndex:idx_cart_pokemon;not null"`
	PokemonID uint      `json:"pokemon_id" gorm:"uniqueIndex:idx_cart_pokemon;not null"`
	Quantity  int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the CartItem model
func (CartItem) TableName() string {
	return "cart_items"
}

// ItemView is a cart line joined with its catalog entry for presentation
type ItemView struct {
	PokemonID uint     `json:"pokemon_id"`
	Name      string   `json:"name"`
	Types     []string `json:"types"`
	Quantity  int      `json:"quantity"`
}
