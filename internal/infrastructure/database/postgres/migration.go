// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/pokemart/storefront/internal/domain/cart"
	"github.com/pokemart/storefront/internal/domain/catalog"
	"github.com/pokemart/storefront/internal/domain/identity"
	"github.com/pokemart/storefront/internal/domain/order"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Dependency order: reference data, users, carts, then orders
	models := []interface{}{
		&catalog.Pokemon{},
		&identity.User{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
		&order.ProcessedEvent{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates the indexes auto-migration cannot express
func (m *Migration) CreateIndexes() error {
	log.Println("Creating additional database indexes...")

	indexes := []string{
		// At most one live cart per user; guest carts (NULL owner) are unconstrained
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_owner_live ON carts(owner_user_id) WHERE deleted_at IS NULL AND owner_user_id IS NOT NULL",

		// Read-path indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("Database indexes created successfully")
	return nil
}

// SeedInitialData seeds the Pokemon catalog in development
func (m *Migration) SeedInitialData() error {
	var count int64
	if err := m.db.Model(&catalog.Pokemon{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count catalog rows: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding Pokemon catalog...")

	seed := []catalog.Pokemon{
		{ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}},
		{ID: 4, Name: "charmander", Types: []string{"fire"}},
		{ID: 7, Name: "squirtle", Types: []string{"water"}},
		{ID: 25, Name: "pikachu", Types: []string{"electric"}},
		{ID: 39, Name: "jigglypuff", Types: []string{"normal", "fairy"}},
		{ID: 52, Name: "meowth", Types: []string{"normal"}},
		{ID: 54, Name: "psyduck", Types: []string{"water"}},
		{ID: 94, Name: "gengar", Types: []string{"ghost", "poison"}},
		{ID: 129, Name: "magikarp", Types: []string{"water"}},
		{ID: 133, Name: "eevee", Types: []string{"normal"}},
		{ID: 143, Name: "snorlax", Types: []string{"normal"}},
		{ID: 150, Name: "mewtwo", Types: []string{"psychic"}},
	}

	if err := m.db.Create(&seed).Error; err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	return nil
}
