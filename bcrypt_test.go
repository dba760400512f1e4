package accounts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accounts "github.com/teamforge/go-accounts"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes a password", func(t *testing.T) {
		hash, err := accounts.HashPassword("s3cret-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "s3cret-pass", hash)
	})

	t.Run("rejects empty passwords", func(t *testing.T) {
		_, err := accounts.HashPassword("")
		assert.ErrorIs(t, err, accounts.ErrNoEmptyString)
	})

	t.Run("salts every hash", func(t *testing.T) {
		a, err := accounts.HashPassword("s3cret-pass")
		require.NoError(t, err)
		b, err := accounts.HashPassword("s3cret-pass")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := accounts.HashPassword("s3cret-pass")
	require.NoError(t, err)

	t.Run("accepts the matching password", func(t *testing.T) {
		assert.NoError(t, accounts.ComparePasswordAndHash("s3cret-pass", hash))
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		err := accounts.ComparePasswordAndHash("wrong-pass", hash)
		assert.ErrorIs(t, err, accounts.ErrMismatchedHashAndPassword)
	})
}
