package accounts_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	accounts "github.com/teamforge/go-accounts"
)

// MockUserStore implements accounts.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) ByEmail(ctx context.Context, email string) (*accounts.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*accounts.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) ByID(ctx context.Context, id uuid.UUID) (*accounts.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*accounts.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserStore) MarkEmailVerified(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockSecureCodeStore implements accounts.SecureCodeStore
type MockSecureCodeStore struct {
	mock.Mock
}

func (m *MockSecureCodeStore) Create(ctx context.Context, record *accounts.SecureCode) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSecureCodeStore) Consume(ctx context.Context, code string) (*accounts.SecureCode, error) {
	args := m.Called(ctx, code)
	if r, ok := args.Get(0).(*accounts.SecureCode); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMailer implements accounts.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// MockEmailRenderer implements accounts.EmailRenderer
type MockEmailRenderer struct {
	mock.Mock
}

func (m *MockEmailRenderer) RenderReset(email, name, code string) (string, error) {
	args := m.Called(email, name, code)
	return args.String(0), args.Error(1)
}

func (m *MockEmailRenderer) RenderVerify(email, link string) (string, error) {
	args := m.Called(email, link)
	return args.String(0), args.Error(1)
}

// MockCompanyRegistry implements accounts.CompanyRegistry
type MockCompanyRegistry struct {
	mock.Mock
}

func (m *MockCompanyRegistry) Lookup(ctx context.Context, taxID string) (*accounts.CompanyInfo, error) {
	args := m.Called(ctx, taxID)
	if c, ok := args.Get(0).(*accounts.CompanyInfo); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockLogger implements accounts.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}
