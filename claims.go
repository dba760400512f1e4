package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Subject kinds carried in the "sub" claim. Every decode states the kind
// it expects, which is what prevents token-type confusion.
const (
	SubjectAccess      = "access"
	SubjectRefresh     = "refresh"
	SubjectEmailVerify = "email-verify"
)

// TokenClaims is the wire payload of every signed assertion: the subject
// kind in "sub", the user id in "id" (session tokens) or the address in
// "email" (verification tokens), plus the registered expiry fields.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`
}

// SubjectKind returns the declared purpose of the token.
func (c *TokenClaims) SubjectKind() string {
	return c.RegisteredClaims.Subject
}

// Expires returns the absolute expiry, zero when the claim is missing.
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}
