package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.GenerateJWT("u-1", "asha@example.com", "police")
	require.NoError(t, err)

	claims, err := issuer.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "police", claims.Role)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenIssuer("one", time.Hour).GenerateJWT("u-1", "a@example.com", "user")
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour).ParseJWT(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := issuer.GenerateJWT("u-1", "a@example.com", "user")
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Minute).ParseJWT(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("admin@123")
	require.NoError(t, err)

	assert.NotEqual(t, "admin@123", hash)
	assert.True(t, CheckPasswordHash("admin@123", hash))
	assert.False(t, CheckPasswordHash("admin@124", hash))
}
