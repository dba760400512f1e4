package accounts

import (
	"context"

	"github.com/google/uuid"
)

// Auther implements the credential flows: login, token refresh, and the
// email verification flip. All failures surface as rich errors; callers
// translate them to transport status at the boundary.
type Auther struct {
	users           UserStore
	tokens          TokenService
	issuer          *TokenIssuer
	requireVerified bool
	logger          Logger
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(users UserStore, tokens TokenService, issuer *TokenIssuer) *Auther {
	return &Auther{
		users:  users,
		tokens: tokens,
		issuer: issuer,
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithVerifiedEmailPolicy makes Login require a verified email address.
// The two observed revisions of the login flow disagree on this, so it is
// a policy switch rather than a hardcoded rule.
func (s *Auther) WithVerifiedEmailPolicy(required bool) *Auther {
	s.requireVerified = required
	return s
}

// Issuer exposes the TokenIssuer used by this authenticator.
func (s *Auther) Issuer() *TokenIssuer {
	return s.issuer
}

// Login verifies the credentials and mints a token pair for the user.
func (s *Auther) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Login user lookup error: %v", err)
		return nil, nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Warn("Login rejected credentials for %s", email)
		return nil, nil, ErrInvalidCredentials
	}

	if s.requireVerified && !user.EmailVerified {
		return nil, nil, ErrEmailNotVerified
	}

	pair, err := s.issuer.IssuePair(user.ID.String())
	if err != nil {
		s.logger.Error("Login token issue error: %v", err)
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh reissues the full token pair from a valid refresh token.
func (s *Auther) Refresh(refreshToken string) (*TokenPair, error) {
	pair, err := s.issuer.Refresh(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh rejected token: %v", err)
		return nil, err
	}
	return pair, nil
}

// ActivateUser flips the verified flag by user id, without a signed
// link. This is the manual activation path used by back office tooling.
func (s *Auther) ActivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.ByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.MarkEmailVerified(ctx, user.Email); err != nil {
		s.logger.Error("ActivateUser flag update error: %v", err)
		return err
	}

	return nil
}

// VerifyEmail redeems a signed verification link and flips the verified
// flag on the matching user.
func (s *Auther) VerifyEmail(ctx context.Context, tokenString string) error {
	email, err := s.tokens.DecodeEmailToken(tokenString)
	if err != nil {
		return err
	}

	if err := s.users.MarkEmailVerified(ctx, email); err != nil {
		s.logger.Error("VerifyEmail flag update error: %v", err)
		return err
	}

	return nil
}
