package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kadry/pkg/sentinel"
)

func newTokenService() *TokenService {
	return NewTokenService("test-signing-key", "kadry", 15*time.Minute, 24*time.Hour)
}

func TestGeneratePair(t *testing.T) {
	svc := newTokenService()

	pair, err := svc.GeneratePair(42)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, int64(900), pair.ExpiresIn)
}

func TestValidate(t *testing.T) {
	svc := newTokenService()
	pair, err := svc.GeneratePair(42)
	require.NoError(t, err)

	t.Run("access token round-trips", func(t *testing.T) {
		userID, err := svc.Validate(pair.AccessToken, TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("refresh token round-trips", func(t *testing.T) {
		userID, err := svc.Validate(pair.RefreshToken, TokenTypeRefresh)
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.Validate(pair.AccessToken, TokenTypeRefresh)
		assert.ErrorIs(t, err, sentinel.ErrUnauthorized)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := svc.Validate(pair.RefreshToken, TokenTypeAccess)
		assert.ErrorIs(t, err, sentinel.ErrUnauthorized)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := svc.Validate("not.a.token", TokenTypeAccess)
		assert.ErrorIs(t, err, sentinel.ErrUnauthorized)
	})

	t.Run("wrong signing key is rejected", func(t *testing.T) {
		other := NewTokenService("another-key", "kadry", 15*time.Minute, 24*time.Hour)
		_, err := other.Validate(pair.AccessToken, TokenTypeAccess)
		assert.ErrorIs(t, err, sentinel.ErrUnauthorized)
	})
}

func TestValidate_ExpiredToken(t *testing.T) {
	svc := NewTokenService("test-signing-key", "kadry", -time.Minute, 24*time.Hour)
	pair, err := svc.GeneratePair(42)
	require.NoError(t, err)

	_, err = svc.Validate(pair.AccessToken, TokenTypeAccess)
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnauthorized)
	assert.Contains(t, err.Error(), "expired")
}
