package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCheckoutSession(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		captured = r

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_123","url":"https://checkout.stripe.com/pay/cs_test_123"}`))
	}))
	defer server.Close()

	client := NewClient("sk_test_key", server.URL, 5*time.Second, logrus.New())

	items := []LineItem{
		{Name: "pikachu", UnitPrice: 500, Currency: "usd", Quantity: 2},
		{Name: "snorlax", UnitPrice: 500, Currency: "usd", Quantity: 1},
	}
	metadata := map[string]string{"cart_id": "42", "user_id": "7"}

	session, err := client.CreateCheckoutSession(context.Background(), items, metadata,
		"https://shop.example/success", "https://shop.example/cancel")
	require.NoError(t, err)

	assert.Equal(t, "cs_test_123", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_123", session.URL)

	require.NotNil(t, captured)
	assert.Equal(t, "/checkout/sessions", captured.URL.Path)
	assert.Equal(t, "Bearer sk_test_key", captured.Header.Get("Authorization"))
	assert.Equal(t, "payment", captured.PostForm.Get("mode"))
	assert.Equal(t, "pikachu", captured.PostForm.Get("line_items[0][price_data][product_data][name]"))
	assert.Equal(t, "500", captured.PostForm.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "usd", captured.PostForm.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "2", captured.PostForm.Get("line_items[0][quantity]"))
	assert.Equal(t, "snorlax", captured.PostForm.Get("line_items[1][price_data][product_data][name]"))
	assert.Equal(t, "42", captured.PostForm.Get("metadata[cart_id]"))
	assert.Equal(t, "7", captured.PostForm.Get("metadata[user_id]"))
	assert.Equal(t, "https://shop.example/success", captured.PostForm.Get("success_url"))
}

func TestCreateCheckoutSessionProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"card declined"}}`))
	}))
	defer server.Close()

	client := NewClient("sk_test_key", server.URL, 5*time.Second, logrus.New())

	_, err := client.CreateCheckoutSession(context.Background(), []LineItem{
		{Name: "eevee", UnitPrice: 500, Currency: "usd", Quantity: 1},
	}, nil, "https://shop.example/success", "https://shop.example/cancel")

	assert.ErrorIs(t, err, ErrProvider)
}

func TestCreateCheckoutSessionIncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cs_test_123"}`))
	}))
	defer server.Close()

	client := NewClient("sk_test_key", server.URL, 5*time.Second, logrus.New())

	_, err := client.CreateCheckoutSession(context.Background(), []LineItem{
		{Name: "eevee", UnitPrice: 500, Currency: "usd", Quantity: 1},
	}, nil, "https://shop.example/success", "https://shop.example/cancel")

	assert.ErrorIs(t, err, ErrProvider)
}

func TestCreateCheckoutSessionUnreachable(t *testing.T) {
	client := NewClient("sk_test_key", "http://127.0.0.1:1", time.Second, logrus.New())

	_, err := client.CreateCheckoutSession(context.Background(), []LineItem{
		{Name: "eevee", UnitPrice: 500, Currency: "usd", Quantity: 1},
	}, nil, "https://shop.example/success", "https://shop.example/cancel")

	assert.ErrorIs(t, err, ErrProvider)
}
