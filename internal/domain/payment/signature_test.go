package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test_secret"
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now()

	header := SignPayload(payload, secret, now)

	err := VerifySignature(payload, header, secret, 5*time.Minute, now)
	assert.NoError(t, err)
}

func TestVerifySignatureTamperedPayload(t *testing.T) {
	secret := "whsec_test_secret"
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := SignPayload(payload, secret, now)

	err := VerifySignature([]byte(`{"id":"evt_2"}`), header, secret, 5*time.Minute, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := SignPayload(payload, "whsec_right", now)

	err := VerifySignature(payload, header, "whsec_wrong", 5*time.Minute, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureStaleTimestamp(t *testing.T) {
	secret := "whsec_test_secret"
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := SignPayload(payload, secret, now.Add(-10*time.Minute))

	err := VerifySignature(payload, header, secret, 5*time.Minute, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureMalformedHeader(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	cases := []string{
		"",
		"t=abc,v1=deadbeef",
		"v1=deadbeef",
		"t=1700000000",
		"garbage",
	}

	for _, header := range cases {
		err := VerifySignature(payload, header, "secret", 0, now)
		assert.ErrorIs(t, err, ErrInvalidSignature, "header: %q", header)
	}
}

func TestVerifySignatureMultipleV1(t *testing.T) {
	secret := "whsec_test_secret"
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	// A rotated endpoint sends one v1 per active secret; any match passes
	valid := SignPayload(payload, secret, now)
	header := fmt.Sprintf("%s,v1=0000000000000000000000000000000000000000000000000000000000000000", valid)

	err := VerifySignature(payload, header, secret, 5*time.Minute, now)
	require.NoError(t, err)
}
