package accounts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accounts "github.com/teamforge/go-accounts"
)

func TestTokenIssuer_IssuePair(t *testing.T) {
	service := accounts.NewTokenService(signingKey, "HS256", nil)
	issuer := accounts.NewTokenIssuer(service, time.Hour, 2*time.Hour)

	pair, err := issuer.IssuePair("user-123")
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, 60, pair.AccessTokenExpire)
	assert.Equal(t, 120, pair.RefreshTokenExpire)

	access, err := service.Decode(pair.AccessToken, accounts.SubjectAccess)
	require.NoError(t, err)
	refresh, err := service.Decode(pair.RefreshToken, accounts.SubjectRefresh)
	require.NoError(t, err)

	assert.Equal(t, "user-123", access.UserID)
	assert.Equal(t, "user-123", refresh.UserID)
}

func TestTokenIssuer_Defaults(t *testing.T) {
	service := accounts.NewTokenService(signingKey, "HS256", nil)
	issuer := accounts.NewTokenIssuer(service, 0, 0)

	pair, err := issuer.IssuePair("user-123")
	require.NoError(t, err)

	assert.Equal(t, 60, pair.AccessTokenExpire)
	assert.Equal(t, 120, pair.RefreshTokenExpire)
}

func TestTokenIssuer_Refresh(t *testing.T) {
	service := accounts.NewTokenService(signingKey, "HS256", nil)
	issuer := accounts.NewTokenIssuer(service, time.Hour, 2*time.Hour)

	t.Run("reissues the full pair", func(t *testing.T) {
		first, err := issuer.IssuePair("user-123")
		require.NoError(t, err)

		second, err := issuer.Refresh(first.RefreshToken)
		require.NoError(t, err)

		assert.NotEmpty(t, second.AccessToken)
		assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

		claims, err := service.Decode(second.AccessToken, accounts.SubjectAccess)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID)
	})

	t.Run("rejects an access token", func(t *testing.T) {
		pair, err := issuer.IssuePair("user-123")
		require.NoError(t, err)

		_, err = issuer.Refresh(pair.AccessToken)
		assert.True(t, accounts.IsWrongSubject(err))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := issuer.Refresh("nope")
		assert.True(t, accounts.IsInvalidToken(err))
	})

	t.Run("rejects an expired refresh token", func(t *testing.T) {
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := base
		svc := accounts.NewTokenService(signingKey, "HS256", nil).
			WithClock(func() time.Time { return clock })
		iss := accounts.NewTokenIssuer(svc, time.Hour, 2*time.Hour)

		pair, err := iss.IssuePair("user-123")
		require.NoError(t, err)

		clock = base.Add(3 * time.Hour)
		_, err = iss.Refresh(pair.RefreshToken)
		assert.True(t, accounts.IsInvalidToken(err))
	})
}
