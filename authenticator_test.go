package accounts_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	accounts "github.com/teamforge/go-accounts"
)

func newAuther(users accounts.UserStore) *accounts.Auther {
	service := accounts.NewTokenService(signingKey, "HS256", nil)
	issuer := accounts.NewTokenIssuer(service, time.Hour, 2*time.Hour)
	return accounts.NewAuthenticator(users, service, issuer)
}

func testUser(t *testing.T, password string, verified bool) *accounts.User {
	t.Helper()

	hash, err := accounts.HashPassword(password)
	require.NoError(t, err)

	return &accounts.User{
		ID:            uuid.New(),
		Role:          accounts.RolePrivatePerson,
		FirstName:     "Grace",
		LastName:      "Hopper",
		Email:         "grace@example.com",
		PasswordHash:  hash,
		EmailVerified: verified,
	}
}

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the user and a token pair", func(t *testing.T) {
		user := testUser(t, "s3cret-pass", false)
		users := &MockUserStore{}
		users.On("ByEmail", mock.Anything, "grace@example.com").Return(user, nil)

		auther := newAuther(users)

		got, pair, err := auther.Login(ctx, "grace@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		users.AssertExpectations(t)
	})

	t.Run("propagates unknown users", func(t *testing.T) {
		users := &MockUserStore{}
		users.On("ByEmail", mock.Anything, "nobody@example.com").Return(nil, accounts.ErrUserNotFound)

		auther := newAuther(users)

		_, _, err := auther.Login(ctx, "nobody@example.com", "whatever")
		assert.True(t, accounts.IsUserNotFound(err))
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		user := testUser(t, "s3cret-pass", true)
		users := &MockUserStore{}
		users.On("ByEmail", mock.Anything, "grace@example.com").Return(user, nil)

		auther := newAuther(users)

		_, _, err := auther.Login(ctx, "grace@example.com", "wrong-pass")
		assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)
	})

	t.Run("unverified email passes while the policy is off", func(t *testing.T) {
		user := testUser(t, "s3cret-pass", false)
		users := &MockUserStore{}
		users.On("ByEmail", mock.Anything, "grace@example.com").Return(user, nil)

		auther := newAuther(users)

		_, pair, err := auther.Login(ctx, "grace@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("unverified email is rejected when the policy is on", func(t *testing.T) {
		user := testUser(t, "s3cret-pass", false)
		users := &MockUserStore{}
		users.On("ByEmail", mock.Anything, "grace@example.com").Return(user, nil)

		auther := newAuther(users).WithVerifiedEmailPolicy(true)

		_, _, err := auther.Login(ctx, "grace@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, accounts.ErrEmailNotVerified)
	})

	t.Run("verified email passes when the policy is on", func(t *testing.T) {
		user := testUser(t, "s3cret-pass", true)
		users := &MockUserStore{}
		users.On("ByEmail", mock.Anything, "grace@example.com").Return(user, nil)

		auther := newAuther(users).WithVerifiedEmailPolicy(true)

		_, _, err := auther.Login(ctx, "grace@example.com", "s3cret-pass")
		assert.NoError(t, err)
	})
}

func TestAuther_Refresh(t *testing.T) {
	auther := newAuther(&MockUserStore{})

	pair, err := auther.Issuer().IssuePair("user-123")
	require.NoError(t, err)

	fresh, err := auther.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	_, err = auther.Refresh(pair.AccessToken)
	assert.True(t, accounts.IsWrongSubject(err))
}

func TestAuther_ActivateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("flips the flag by id", func(t *testing.T) {
		user := testUser(t, "s3cret-pass", false)

		users := &MockUserStore{}
		users.On("ByID", mock.Anything, user.ID).Return(user, nil)
		users.On("MarkEmailVerified", mock.Anything, user.Email).Return(nil)

		auther := newAuther(users)

		assert.NoError(t, auther.ActivateUser(ctx, user.ID))
		users.AssertExpectations(t)
	})

	t.Run("unknown id propagates not found", func(t *testing.T) {
		id := uuid.New()

		users := &MockUserStore{}
		users.On("ByID", mock.Anything, id).Return(nil, accounts.ErrUserNotFound)

		auther := newAuther(users)

		err := auther.ActivateUser(ctx, id)
		assert.True(t, accounts.IsUserNotFound(err))
		users.AssertNotCalled(t, "MarkEmailVerified", mock.Anything, mock.Anything)
	})
}

func TestAuther_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	service := accounts.NewTokenService(signingKey, "HS256", nil)
	issuer := accounts.NewTokenIssuer(service, time.Hour, 2*time.Hour)

	t.Run("flips the flag for a valid link", func(t *testing.T) {
		users := &MockUserStore{}
		users.On("MarkEmailVerified", mock.Anything, "grace@example.com").Return(nil)

		auther := accounts.NewAuthenticator(users, service, issuer)

		token, err := service.EncodeEmailToken("grace@example.com", time.Hour)
		require.NoError(t, err)

		assert.NoError(t, auther.VerifyEmail(ctx, token))
		users.AssertExpectations(t)
	})

	t.Run("rejects a session token", func(t *testing.T) {
		auther := accounts.NewAuthenticator(&MockUserStore{}, service, issuer)

		token, err := service.Encode(accounts.SubjectAccess, "user-123", time.Hour)
		require.NoError(t, err)

		err = auther.VerifyEmail(ctx, token)
		assert.True(t, accounts.IsWrongSubject(err))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		auther := accounts.NewAuthenticator(&MockUserStore{}, service, issuer)

		err := auther.VerifyEmail(ctx, "nope")
		assert.True(t, accounts.IsInvalidToken(err))
	})
}
