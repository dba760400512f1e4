package accounts_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	accounts "github.com/teamforge/go-accounts"
)

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a private person", func(t *testing.T) {
		db := setupDB(t)
		repo := accounts.NewRepositoryManager(db)

		var created *accounts.User
		handler := accounts.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, accounts.RegisterUserMessage{
			FirstName:  "Grace",
			LastName:   "Hopper",
			Email:      "grace@example.com",
			Phone:      "+79161234567",
			Password:   "s3cret-pass",
			Role:       accounts.RolePrivatePerson,
			OnResponse: func(u *accounts.User) { created = u },
		})
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, accounts.RolePrivatePerson, created.Role)
		assert.Equal(t, "+79161234567", created.Phone)
		assert.False(t, created.EmailVerified)

		stored, err := repo.Users().ByEmail(ctx, "grace@example.com")
		require.NoError(t, err)
		assert.NoError(t, accounts.ComparePasswordAndHash("s3cret-pass", stored.PasswordHash))
	})

	t.Run("hashid gives the same user the same id", func(t *testing.T) {
		db := setupDB(t)
		repo := accounts.NewRepositoryManager(db)

		var first *accounts.User
		handler := accounts.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, accounts.RegisterUserMessage{
			FirstName:  "Grace",
			LastName:   "Hopper",
			Email:      "grace@example.com",
			Password:   "s3cret-pass",
			Role:       accounts.RolePrivatePerson,
			UseHashid:  true,
			OnResponse: func(u *accounts.User) { first = u },
		})
		require.NoError(t, err)
		require.NotNil(t, first)
		assert.NotEqual(t, uuid.Nil, first.ID)
	})

	t.Run("enriches legal persons from the registry", func(t *testing.T) {
		db := setupDB(t)
		repo := accounts.NewRepositoryManager(db)

		registry := &MockCompanyRegistry{}
		registry.On("Lookup", mock.Anything, "7701234567").Return(&accounts.CompanyInfo{
			Name:    `ООО "Ромашка"`,
			Head:    "Иванов Иван Иванович",
			Address: "г. Москва, ул. Ленина, д. 1",
		}, nil)

		var created *accounts.User
		handler := accounts.NewRegisterUserHandler(repo).WithCompanyRegistry(registry)

		err := handler.Execute(ctx, accounts.RegisterUserMessage{
			FirstName:    "Ivan",
			LastName:     "Ivanov",
			Email:        "ivan@example.com",
			Password:     "s3cret-pass",
			Role:         accounts.RoleLegalPerson,
			CompanyTaxID: "7701234567",
			OnResponse:   func(u *accounts.User) { created = u },
		})
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, "7701234567", created.CompanyTaxID)
		assert.Equal(t, `ООО "Ромашка"`, created.CompanyName)
		assert.Equal(t, "Иванов Иван Иванович", created.CompanyHead)
		registry.AssertExpectations(t)
	})

	t.Run("unknown company aborts registration", func(t *testing.T) {
		db := setupDB(t)
		repo := accounts.NewRepositoryManager(db)

		registry := &MockCompanyRegistry{}
		registry.On("Lookup", mock.Anything, "0000000000").
			Return(nil, accounts.ErrCompanyNotFound)

		handler := accounts.NewRegisterUserHandler(repo).WithCompanyRegistry(registry)

		err := handler.Execute(ctx, accounts.RegisterUserMessage{
			FirstName:    "Ivan",
			LastName:     "Ivanov",
			Email:        "ivan@example.com",
			Password:     "s3cret-pass",
			Role:         accounts.RoleLegalPerson,
			CompanyTaxID: "0000000000",
		})
		assert.ErrorIs(t, err, accounts.ErrCompanyNotFound)

		_, err = repo.Users().ByEmail(ctx, "ivan@example.com")
		assert.True(t, accounts.IsUserNotFound(err))
	})

	t.Run("rejects an invalid phone number", func(t *testing.T) {
		db := setupDB(t)
		repo := accounts.NewRepositoryManager(db)

		handler := accounts.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, accounts.RegisterUserMessage{
			FirstName: "Grace",
			LastName:  "Hopper",
			Email:     "grace@example.com",
			Phone:     "12345",
			Password:  "s3cret-pass",
			Role:      accounts.RolePrivatePerson,
		})
		assert.Error(t, err)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		db := setupDB(t)
		repo := accounts.NewRepositoryManager(db)

		handler := accounts.NewRegisterUserHandler(repo)
		msg := accounts.RegisterUserMessage{
			FirstName: "Grace",
			LastName:  "Hopper",
			Email:     "grace@example.com",
			Password:  "s3cret-pass",
			Role:      accounts.RolePrivatePerson,
		}

		require.NoError(t, handler.Execute(ctx, msg))
		assert.Error(t, handler.Execute(ctx, msg))
	})
}
