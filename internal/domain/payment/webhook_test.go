package payment

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_123",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_abc",
				"metadata": {"cart_id": "42", "user_id": "7"}
			}
		}
	}`)

	event, err := ParseEvent(payload)
	require.NoError(t, err)

	assert.Equal(t, "evt_123", event.ID)
	assert.Equal(t, EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_test_abc", event.SessionID())

	cartID, ok := event.CartID()
	assert.True(t, ok)
	assert.Equal(t, uint(42), cartID)
}

func TestParseEventMalformed(t *testing.T) {
	cases := [][]byte{
		[]byte(`not json`),
		[]byte(`{}`),
		[]byte(`{"id":"evt_1"}`),
		[]byte(`{"type":"checkout.session.completed"}`),
	}

	for _, payload := range cases {
		_, err := ParseEvent(payload)
		assert.ErrorIs(t, err, ErrMalformedEvent, "payload: %s", payload)
	}
}

func TestEventCartIDMissingOrBad(t *testing.T) {
	event := &Event{}
	_, ok := event.CartID()
	assert.False(t, ok)

	event.Data.Object.Metadata = map[string]string{"cart_id": "not-a-number"}
	_, ok = event.CartID()
	assert.False(t, ok)
}

func TestHandleDeliveryRejectsBadSignature(t *testing.T) {
	// No storage is touched before the signature gate, so a processor
	// without backing services still must reject forgeries
	processor := NewProcessor(nil, nil, nil, logrus.New(), "whsec_secret", 5*time.Minute)

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	err := processor.HandleDelivery(context.Background(), payload, "t=123,v1=bogus")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
