package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-characters"

func mintToken(t *testing.T, secret, subject, email, issuer string, expiresIn time.Duration) string {
	t.Helper()

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestValidateToken(t *testing.T) {
	manager := NewJWTManager(testSecret, "")

	token := mintToken(t, testSecret, "ext-user-1", "ash@example.com", "", time.Hour)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ext-user-1", claims.Subject)
	assert.Equal(t, "ash@example.com", claims.Email)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	manager := NewJWTManager(testSecret, "")

	token := mintToken(t, "some-other-secret-32-characters-long", "ext-user-1", "", "", time.Hour)

	_, err := manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	manager := NewJWTManager(testSecret, "")

	token := mintToken(t, testSecret, "ext-user-1", "", "", -time.Hour)

	_, err := manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenMissingSubject(t *testing.T) {
	manager := NewJWTManager(testSecret, "")

	token := mintToken(t, testSecret, "", "", "", time.Hour)

	_, err := manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenIssuerMismatch(t *testing.T) {
	manager := NewJWTManager(testSecret, "https://id.example.com")

	token := mintToken(t, testSecret, "ext-user-1", "", "https://other.example.com", time.Hour)

	_, err := manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = ExtractTokenFromHeader("Basic abc")
	assert.Error(t, err)

	_, err = ExtractTokenFromHeader("Bearer")
	assert.Error(t, err)
}
