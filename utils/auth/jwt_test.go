package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        expiry,
		RefreshExpiry: 2 * expiry,
		Issuer:        "learnhub-test",
	})
}

func TestGeneratePairRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour)

	pair, err := m.GeneratePair(7, "alice@x.io", "student", 3)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessJTI, pair.RefreshJTI)

	claims, err := m.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, pair.AccessJTI, claims.ID)

	refresh, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshJTI, refresh.ID)
}

func TestValidateRefreshTokenRejectsAccessToken(t *testing.T) {
	m := newTestManager(time.Hour)
	access, _, err := m.GenerateAccessToken(1, "a@b.c", "admin", 0)
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	m := newTestManager(-time.Minute)
	token, _, err := m.GenerateAccessToken(1, "a@b.c", "student", 0)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := newTestManager(time.Hour).GenerateAccessToken(1, "a@b.c", "student", 0)
	require.NoError(t, err)

	other := NewJWTManager(JWTConfig{Secret: "other", Expiry: time.Hour, Issuer: "learnhub-test"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := newTestManager(time.Hour).ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
