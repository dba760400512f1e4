package accounts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	accounts "github.com/teamforge/go-accounts"
)

func TestUserIDContext(t *testing.T) {
	t.Run("round trips the id", func(t *testing.T) {
		ctx := accounts.WithUserID(context.Background(), "user-123")

		id, ok := accounts.UserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "user-123", id)
	})

	t.Run("anonymous context has no id", func(t *testing.T) {
		_, ok := accounts.UserIDFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("empty id reads as anonymous", func(t *testing.T) {
		ctx := accounts.WithUserID(context.Background(), "")
		_, ok := accounts.UserIDFromContext(ctx)
		assert.False(t, ok)
	})
}
