package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret-key-at-least-32-characters")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(500), cfg.Checkout.UnitPriceCents)
	assert.Equal(t, "usd", cfg.Checkout.Currency)
	assert.Equal(t, 15*time.Second, cfg.Stripe.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Stripe.SignatureTolerance)
	assert.Equal(t, "cart_session", cfg.Session.CookieName)
}

func TestValidateShortJWTSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateStripeRequiredInProduction(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret-key-at-least-32-characters")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateNonPositiveUnitPrice(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret-key-at-least-32-characters")
	t.Setenv("CHECKOUT_UNIT_PRICE_CENTS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestCheckoutURLDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret-key-at-least-32-characters")
	t.Setenv("APP_BASE_URL", "https://shop.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example/checkout/success?session_id={CHECKOUT_SESSION_ID}", cfg.CheckoutSuccessURL())
	assert.Equal(t, "https://shop.example/checkout/cancel", cfg.CheckoutCancelURL())

	t.Setenv("STRIPE_SUCCESS_URL", "https://other.example/done")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "https://other.example/done", cfg.CheckoutSuccessURL())
}

func TestGetDatabaseDSN(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret-key-at-least-32-characters")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.GetDatabaseDSN(), "host=db.internal")
	assert.Contains(t, cfg.GetDatabaseDSN(), "port=5433")
}
