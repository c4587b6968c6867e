package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/pokemart/storefront/internal/config"
	"github.com/pokemart/storefront/internal/domain/cart"
	"github.com/pokemart/storefront/internal/domain/catalog"
	"github.com/pokemart/storefront/internal/domain/order"
	"github.com/pokemart/storefront/internal/domain/payment"
	"github.com/pokemart/storefront/internal/pkg/session"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type memorySessions struct {
	bindings map[string]uint
}

func (m *memorySessions) CartID(_ context.Context, token string) (uint, error) {
	id, ok := m.bindings[token]
	if !ok {
		return 0, session.ErrNoBinding
	}
	return id, nil
}

func (m *memorySessions) Bind(_ context.Context, token string, cartID uint) error {
	m.bindings[token] = cartID
	return nil
}

func (m *memorySessions) Clear(_ context.Context, token string) error {
	delete(m.bindings, token)
	return nil
}

func TestBeginCheckout(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("Integration test - requires database (set TEST_DATABASE_DSN)")
	}

	db, err := gorm.Open(postgres.New(postgres.Config{DSN: dsn}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Pokemon{}, &cart.Cart{}, &cart.CartItem{}, &order.Order{}, &order.OrderItem{}))
	db.Save(&catalog.Pokemon{ID: 25, Name: "pikachu", Types: []string{"electric"}})

	stripe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		// The correlation key must travel with the session
		assert.NotEmpty(t, r.PostForm.Get("metadata[cart_id]"))
		w.Write([]byte(`{"id":"cs_test_begin","url":"https://checkout.stripe.com/pay/cs_test_begin"}`))
	}))
	defer stripe.Close()

	cfg := &config.Config{}
	cfg.App.BaseURL = "http://localhost:8080"
	cfg.Checkout.UnitPriceCents = 500
	cfg.Checkout.Currency = "usd"

	logger := logrus.New()
	sessions := &memorySessions{bindings: make(map[string]uint)}
	catalogService := catalog.NewService(db)
	cartService := cart.NewService(db, catalogService, sessions)
	orderService := order.NewService(db)
	client := payment.NewClient("sk_test", stripe.URL, 5*time.Second, logger)
	service := NewService(cfg, cartService, orderService, client, logger)

	ctx := context.Background()

	guest, err := cartService.ResolveGuest(ctx, "tok-checkout")
	require.NoError(t, err)

	// Empty carts never reach the provider
	_, err = service.Begin(ctx, guest.ID, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	require.NoError(t, cartService.AddItem(ctx, guest.ID, 25, 3))

	result, err := service.Begin(ctx, guest.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_begin", result.RedirectURL)
	assert.Equal(t, "cs_test_begin", result.Order.PaymentSessionID)
	assert.Equal(t, order.StatusPending, result.Order.Status)
	assert.Equal(t, int64(1500), result.Order.TotalAmount)
	require.Len(t, result.Order.Items, 1)
	assert.Equal(t, "pikachu", result.Order.Items[0].Name)
	assert.Equal(t, int64(500), result.Order.Items[0].UnitPrice)

	// The cart survives until the payment settles
	items, err := cartService.Items(ctx, guest.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
