package accounts

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService encodes and decodes the signed assertions used for
// sessions and email verification. Implementations are deterministic
// given the same secret, method and clock, and have no side effects.
type TokenService interface {
	Encode(subjectKind, userID string, ttl time.Duration) (string, error)
	Decode(tokenString, expectedSubject string) (*TokenClaims, error)
	EncodeEmailToken(email string, ttl time.Duration) (string, error)
	DecodeEmailToken(tokenString string) (string, error)
}

// TokenServiceImpl implements TokenService over a single shared HMAC secret.
type TokenServiceImpl struct {
	signingKey    []byte
	signingMethod jwt.SigningMethod
	logger        Logger
	now           func() time.Time
}

// NewTokenService creates a TokenService. Only HMAC-class methods are
// accepted; anything else falls back to HS256.
func NewTokenService(signingKey []byte, method string, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}

	sm := jwt.GetSigningMethod(method)
	if _, ok := sm.(*jwt.SigningMethodHMAC); !ok {
		sm = jwt.SigningMethodHS256
	}

	return &TokenServiceImpl{
		signingKey:    signingKey,
		signingMethod: sm,
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock overrides the time source used for minting and validation.
func (ts *TokenServiceImpl) WithClock(now func() time.Time) *TokenServiceImpl {
	if now != nil {
		ts.now = now
	}
	return ts
}

// Encode builds a signed token of the given kind for the user.
func (ts *TokenServiceImpl) Encode(subjectKind, userID string, ttl time.Duration) (string, error) {
	return ts.sign(&TokenClaims{
		RegisteredClaims: ts.registered(subjectKind, ttl),
		UserID:           userID,
	})
}

// EncodeEmailToken builds the dedicated email-verify assertion. It carries
// the address instead of a user id so the link stays valid across account
// edits that do not touch the email.
func (ts *TokenServiceImpl) EncodeEmailToken(email string, ttl time.Duration) (string, error) {
	return ts.sign(&TokenClaims{
		RegisteredClaims: ts.registered(SubjectEmailVerify, ttl),
		Email:            email,
	})
}

func (ts *TokenServiceImpl) registered(subjectKind string, ttl time.Duration) jwt.RegisteredClaims {
	now := ts.now()
	return jwt.RegisteredClaims{
		Subject:   subjectKind,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (ts *TokenServiceImpl) sign(claims *TokenClaims) (string, error) {
	token := jwt.NewWithClaims(ts.signingMethod, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Decode verifies signature and expiry and checks the subject kind.
// Signature, structure and expiry failures all surface as ErrInvalidToken;
// a valid token of another kind surfaces as ErrWrongSubject.
func (ts *TokenServiceImpl) Decode(tokenString, expectedSubject string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token decode rejected signing method %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, jwt.WithTimeFunc(ts.now))

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token decode could not map claims")
		return nil, ErrInvalidToken
	}

	if claims.SubjectKind() != expectedSubject {
		return nil, ErrWrongSubject
	}

	return claims, nil
}

// DecodeEmailToken validates an email-verify assertion and returns the
// address it was minted for.
func (ts *TokenServiceImpl) DecodeEmailToken(tokenString string) (string, error) {
	claims, err := ts.Decode(tokenString, SubjectEmailVerify)
	if err != nil {
		return "", err
	}

	if claims.Email == "" {
		return "", ErrInvalidToken
	}

	return claims.Email, nil
}
