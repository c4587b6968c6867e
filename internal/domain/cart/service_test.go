package cart

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/pokemart/storefront/internal/domain/catalog"
	"github.com/pokemart/storefront/internal/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// fakeSessionStore keeps bindings in memory for tests
type fakeSessionStore struct {
	mu       sync.Mutex
	bindings map[string]uint
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{bindings: make(map[string]uint)}
}

func (f *fakeSessionStore) CartID(_ context.Context, token string) (uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.bindings[token]
	if !ok {
		return 0, session.ErrNoBinding
	}
	return id, nil
}

func (f *fakeSessionStore) Bind(_ context.Context, token string, cartID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bindings[token] = cartID
	return nil
}

func (f *fakeSessionStore) Clear(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.bindings, token)
	return nil
}

func testService(t *testing.T) (*Service, *fakeSessionStore) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("Integration test - requires database (set TEST_DATABASE_DSN)")
	}

	db, err := gorm.Open(postgres.New(postgres.Config{DSN: dsn}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&catalog.Pokemon{}, &Cart{}, &CartItem{}))
	db.Save(&catalog.Pokemon{ID: 25, Name: "pikachu", Types: []string{"electric"}})
	db.Save(&catalog.Pokemon{ID: 143, Name: "snorlax", Types: []string{"normal"}})

	sessions := newFakeSessionStore()
	return NewService(db, catalog.NewService(db), sessions), sessions
}

func TestAddItemFoldsDuplicates(t *testing.T) {
	service, sessions := testService(t)
	ctx := context.Background()

	c, err := service.ResolveGuest(ctx, "tok-1")
	require.NoError(t, err)
	assert.Contains(t, sessions.bindings, "tok-1")

	require.NoError(t, service.AddItem(ctx, c.ID, 25, 2))
	require.NoError(t, service.AddItem(ctx, c.ID, 25, 3))

	items, err := service.Items(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "pikachu", items[0].Name)
}

func TestAddItemValidation(t *testing.T) {
	service, _ := testService(t)
	ctx := context.Background()

	c, err := service.ResolveGuest(ctx, "tok-2")
	require.NoError(t, err)

	assert.ErrorIs(t, service.AddItem(ctx, c.ID, 25, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, service.AddItem(ctx, c.ID, 9999, 1), ErrUnknownPokemon)
	assert.ErrorIs(t, service.AddItem(ctx, 999999, 25, 1), ErrCartNotFound)
}

func TestSetQuantity(t *testing.T) {
	service, _ := testService(t)
	ctx := context.Background()

	c, err := service.ResolveGuest(ctx, "tok-3")
	require.NoError(t, err)

	// Setting an absent line creates it
	require.NoError(t, service.SetQuantity(ctx, c.ID, 25, 4))
	// Setting again overwrites rather than accumulates
	require.NoError(t, service.SetQuantity(ctx, c.ID, 25, 2))

	items, err := service.Items(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	// Zero removes the line
	require.NoError(t, service.SetQuantity(ctx, c.ID, 25, 0))
	items, err = service.Items(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClearSemantics(t *testing.T) {
	service, _ := testService(t)
	ctx := context.Background()

	c, err := service.ResolveGuest(ctx, "tok-clear")
	require.NoError(t, err)
	require.NoError(t, service.AddItem(ctx, c.ID, 25, 2))

	require.NoError(t, service.Clear(ctx, c.ID))
	items, err := service.Items(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// The user-facing clear rejects a missing cart; the webhook cleanup
	// variant treats absence as already done
	assert.ErrorIs(t, service.Clear(ctx, 999999), ErrCartNotFound)
	assert.NoError(t, service.ClearIfPresent(ctx, 999999))
}

func TestRemoveAbsentItemIsNoop(t *testing.T) {
	service, _ := testService(t)
	ctx := context.Background()

	c, err := service.ResolveGuest(ctx, "tok-4")
	require.NoError(t, err)

	assert.NoError(t, service.RemoveItem(ctx, c.ID, 25))
}

func TestResolveForUserIsStable(t *testing.T) {
	service, _ := testService(t)
	ctx := context.Background()

	first, err := service.ResolveForUser(ctx, 101)
	require.NoError(t, err)
	second, err := service.ResolveForUser(ctx, 101)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestMergeGuestIntoUser(t *testing.T) {
	service, sessions := testService(t)
	ctx := context.Background()

	guest, err := service.ResolveGuest(ctx, "tok-merge")
	require.NoError(t, err)
	require.NoError(t, service.AddItem(ctx, guest.ID, 25, 2))
	require.NoError(t, service.AddItem(ctx, guest.ID, 143, 1))

	userCart, err := service.ResolveForUser(ctx, 202)
	require.NoError(t, err)
	require.NoError(t, service.AddItem(ctx, userCart.ID, 25, 1))

	merged, err := service.MergeGuestIntoUser(ctx, "tok-merge", 202)
	require.NoError(t, err)
	assert.Equal(t, userCart.ID, merged.ID)

	items, err := service.Items(ctx, merged.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byID := map[uint]int{}
	for _, item := range items {
		byID[item.PokemonID] = item.Quantity
	}
	assert.Equal(t, 3, byID[25])
	assert.Equal(t, 1, byID[143])

	// Binding is gone and the guest cart is consumed
	assert.NotContains(t, sessions.bindings, "tok-merge")
	_, err = service.Get(ctx, guest.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	// A replayed merge is a no-op
	merged, err = service.MergeGuestIntoUser(ctx, "tok-merge", 202)
	require.NoError(t, err)
	items, err = service.Items(ctx, merged.ID)
	require.NoError(t, err)
	byID = map[uint]int{}
	for _, item := range items {
		byID[item.PokemonID] = item.Quantity
	}
	assert.Equal(t, 3, byID[25])
}
