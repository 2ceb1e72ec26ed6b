package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kadry/pkg/sentinel"
)

func newAuthService(t *testing.T) (*Service, *InMemoryUserStore) {
	t.Helper()
	users := NewInMemoryUserStore()
	svc, err := NewService(users, newTokenService())
	require.NoError(t, err)
	return svc, users
}

func TestRegister(t *testing.T) {
	t.Run("creates an account with a hashed password", func(t *testing.T) {
		svc, _ := newAuthService(t)

		user, err := svc.Register(context.Background(), "kadrowa", "tajne haslo", true)
		require.NoError(t, err)
		require.NotZero(t, user.ID)
		assert.True(t, user.IsAdmin)
		assert.NotEqual(t, "tajne haslo", user.PasswordHash)
	})

	t.Run("rejects blank credentials", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register(context.Background(), "", "haslo", false)
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
		_, err = svc.Register(context.Background(), "kadrowa", "", false)
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register(context.Background(), "kadrowa", "haslo", false)
		require.NoError(t, err)
		_, err = svc.Register(context.Background(), "kadrowa", "inne haslo", false)
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	user, err := svc.Register(context.Background(), "kadrowa", "tajne haslo", false)
	require.NoError(t, err)

	t.Run("valid credentials issue a pair", func(t *testing.T) {
		pair, err := svc.Login(context.Background(), "kadrowa", "tajne haslo")
		require.NoError(t, err)

		userID, err := svc.Tokens().Validate(pair.AccessToken, TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "kadrowa", "zle haslo")
		assert.ErrorIs(t, err, sentinel.ErrUnauthorized)
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nikt", "haslo")
		assert.ErrorIs(t, err, sentinel.ErrUnauthorized)
		assert.NotContains(t, err.Error(), "not found")
	})
}

func TestRefresh(t *testing.T) {
	t.Run("valid refresh token issues a new pair", func(t *testing.T) {
		svc, _ := newAuthService(t)
		user, err := svc.Register(context.Background(), "kadrowa", "haslo", false)
		require.NoError(t, err)
		pair, err := svc.Login(context.Background(), "kadrowa", "haslo")
		require.NoError(t, err)

		renewed, err := svc.Refresh(context.Background(), pair.RefreshToken)
		require.NoError(t, err)

		userID, err := svc.Tokens().Validate(renewed.AccessToken, TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		svc, _ := newAuthService(t)
		_, err := svc.Register(context.Background(), "kadrowa", "haslo", false)
		require.NoError(t, err)
		pair, err := svc.Login(context.Background(), "kadrowa", "haslo")
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), pair.AccessToken)
		assert.ErrorIs(t, err, sentinel.ErrUnauthorized)
	})

	t.Run("deleted account revokes its refresh tokens", func(t *testing.T) {
		users := NewInMemoryUserStore()
		tokens := newTokenService()
		svc, err := NewService(users, tokens)
		require.NoError(t, err)

		// A pair for a user that never existed in the store.
		pair, err := tokens.GeneratePair(99)
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, sentinel.ErrUnauthorized)
	})
}

func TestLogin_TimingIsHashBound(t *testing.T) {
	// Not a benchmark, just a sanity check that the unknown-user path still
	// does a bcrypt comparison rather than returning immediately.
	svc, _ := newAuthService(t)

	start := time.Now()
	_, err := svc.Login(context.Background(), "nikt", "haslo")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, sentinel.ErrUnauthorized)
	assert.Greater(t, elapsed, time.Millisecond)
}
