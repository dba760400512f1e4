package accounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Logger is the minimal logging surface used across the package.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// UserStore is the slice of the user repository the auth flows consume:
// lookup by email/id, credential updates, and the verified flag flip.
type UserStore interface {
	ByEmail(ctx context.Context, email string) (*User, error)
	ByID(ctx context.Context, id uuid.UUID) (*User, error)
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	MarkEmailVerified(ctx context.Context, email string) error
}

// SecureCodeStore persists one-time codes. Consume must be atomic: a code
// can be read for redemption exactly once, even under concurrent requests.
type SecureCodeStore interface {
	Create(ctx context.Context, record *SecureCode) error
	Consume(ctx context.Context, code string) (*SecureCode, error)
}

// Mailer delivers rendered email content to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// EmailRenderer renders the HTML bodies for the outbound emails.
type EmailRenderer interface {
	RenderReset(email, name, code string) (string, error)
	RenderVerify(email, link string) (string, error)
}

// CompanyRegistry resolves legal-person details from a tax id.
type CompanyRegistry interface {
	Lookup(ctx context.Context, taxID string) (*CompanyInfo, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
