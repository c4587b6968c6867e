// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/pokemart/storefront/internal/domain/catalog"
	"github.com/pokemart/storefront/internal/pkg/session"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service errors
var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrUnknownPokemon  = errors.New("unknown pokemon")
)

// Service manages cart lifecycle and contents
type Service struct {
	db       *gorm.DB
	catalog  *catalog.Service
	sessions session.Store
}

// NewService creates a new cart service
func NewService(db *gorm.DB, catalogService *catalog.Service, sessions session.Store) *Service {
	return &Service{
		db:       db,
		catalog:  catalogService,
		sessions: sessions,
	}
}

// ResolveForUser returns the user's live cart, creating it on first use.
// Concurrent first requests race on the partial unique owner index; the
// loser re-selects the winner's cart.
func (s *Service) ResolveForUser(ctx context.Context, userID uint) (*Cart, error) {
	var c Cart
	err := s.db.WithContext(ctx).Where("owner_user_id = ?", userID).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get user cart: %w", err)
	}

	c = Cart{OwnerUserID: &userID}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := s.db.WithContext(ctx).Where("owner_user_id = ?", userID).First(&c).Error; err != nil {
				return nil, fmt.Errorf("failed to get user cart after insert race: %w", err)
			}
			return &c, nil
		}
		return nil, fmt.Errorf("failed to create user cart: %w", err)
	}

	return &c, nil
}

// ResolveGuest returns the guest cart bound to the session token, creating
// the cart and the binding on first use.
func (s *Service) ResolveGuest(ctx context.Context, token string) (*Cart, error) {
	cartID, err := s.sessions.CartID(ctx, token)
	if err == nil {
		var c Cart
		findErr := s.db.WithContext(ctx).First(&c, cartID).Error
		if findErr == nil {
			return &c, nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get guest cart: %w", findErr)
		}
		// Binding points at a consumed or expired cart; fall through and
		// mint a fresh one.
	} else if !errors.Is(err, session.ErrNoBinding) {
		return nil, err
	}

	c := Cart{}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create guest cart: %w", err)
	}
	if err := s.sessions.Bind(ctx, token, c.ID); err != nil {
		return nil, err
	}

	return &c, nil
}

// Get returns a cart by ID
func (s *Service) Get(ctx context.Context, cartID uint) (*Cart, error) {
	var c Cart
	if err := s.db.WithContext(ctx).First(&c, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &c, nil
}

// AddItem adds quantity of a pokemon to the cart, folding into an existing
// line atomically. Safe under concurrent adds for the same pokemon.
func (s *Service) AddItem(ctx context.Context, cartID, pokemonID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := s.touch(ctx, cartID); err != nil {
		return err
	}
	if _, err := s.catalog.Get(ctx, pokemonID); err != nil {
		if errors.Is(err, catalog.ErrPokemonNotFound) {
			return ErrUnknownPokemon
		}
		return err
	}

	item := CartItem{CartID: cartID, PokemonID: pokemonID, Quantity: quantity}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "pokemon_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// SetQuantity overwrites the quantity of a cart line. A non-positive
// quantity removes the line; setting an absent line creates it, so the
// operation is idempotent either way.
func (s *Service) SetQuantity(ctx context.Context, cartID, pokemonID uint, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartID, pokemonID)
	}
	if err := s.touch(ctx, cartID); err != nil {
		return err
	}
	if _, err := s.catalog.Get(ctx, pokemonID); err != nil {
		if errors.Is(err, catalog.ErrPokemonNotFound) {
			return ErrUnknownPokemon
		}
		return err
	}

	item := CartItem{CartID: cartID, PokemonID: pokemonID, Quantity: quantity}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "pokemon_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("excluded.quantity"),
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to set cart item quantity: %w", err)
	}

	return nil
}

// RemoveItem deletes a cart line. Removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, cartID, pokemonID uint) error {
	if err := s.touch(ctx, cartID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).
		Where("cart_id = ? AND pokemon_id = ?", cartID, pokemonID).
		Delete(&CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

// Items returns the cart contents joined with the catalog, oldest line first
func (s *Service) Items(ctx context.Context, cartID uint) ([]ItemView, error) {
	if _, err := s.Get(ctx, cartID); err != nil {
		return nil, err
	}

	var lines []CartItem
	err := s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.PokemonID)
	}
	entries, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(lines))
	for _, line := range lines {
		view := ItemView{PokemonID: line.PokemonID, Quantity: line.Quantity}
		if entry, ok := entries[line.PokemonID]; ok {
			view.Name = entry.Name
			view.Types = entry.Types
		}
		views = append(views, view)
	}

	return views, nil
}

// Clear removes every line from the cart. The cart row itself survives.
// Clearing a nonexistent cart fails with ErrCartNotFound.
func (s *Service) Clear(ctx context.Context, cartID uint) error {
	if err := s.touch(ctx, cartID); err != nil {
		return err
	}
	return s.clearItems(ctx, cartID)
}

// ClearIfPresent removes the cart's lines and no-ops when the cart is
// gone. Post-payment cleanup races with merges that consume the cart, so
// absence is not an error on that path.
func (s *Service) ClearIfPresent(ctx context.Context, cartID uint) error {
	return s.clearItems(ctx, cartID)
}

func (s *Service) clearItems(ctx context.Context, cartID uint) error {
	err := s.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// MergeGuestIntoUser folds the guest cart bound to the session token into
// the user's cart and consumes the guest cart, all in one transaction. The
// session binding is cleared afterwards; if that write is lost the retried
// merge finds the guest cart already soft-deleted and no-ops, so the merge
// is at most once effective.
func (s *Service) MergeGuestIntoUser(ctx context.Context, token string, userID uint) (*Cart, error) {
	userCart, err := s.ResolveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	guestCartID, err := s.sessions.CartID(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNoBinding) {
			return userCart, nil
		}
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var guest Cart
		if err := tx.First(&guest, guestCartID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Already consumed by an earlier merge attempt
				return nil
			}
			return fmt.Errorf("failed to get guest cart: %w", err)
		}
		if guest.OwnerUserID != nil {
			return nil
		}

		var lines []CartItem
		if err := tx.Where("cart_id = ?", guest.ID).Find(&lines).Error; err != nil {
			return fmt.Errorf("failed to list guest cart items: %w", err)
		}

		for _, line := range lines {
			item := CartItem{CartID: userCart.ID, PokemonID: line.PokemonID, Quantity: line.Quantity}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "cart_id"}, {Name: "pokemon_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
					"updated_at": gorm.Expr("now()"),
				}),
			}).Create(&item).Error
			if err != nil {
				return fmt.Errorf("failed to merge cart item: %w", err)
			}
		}

		if err := tx.Where("cart_id = ?", guest.ID).Delete(&CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to remove guest cart items: %w", err)
		}
		if err := tx.Delete(&guest).Error; err != nil {
			return fmt.Errorf("failed to consume guest cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Clear(ctx, token); err != nil {
		return nil, err
	}

	return userCart, nil
}

// touch verifies the cart exists and bumps updated_at in one statement
func (s *Service) touch(ctx context.Context, cartID uint) error {
	result := s.db.WithContext(ctx).
		Model(&Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", gorm.Expr("now()"))
	if result.Error != nil {
		return fmt.Errorf("failed to touch cart: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCartNotFound
	}
	return nil
}
