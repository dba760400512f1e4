package accounts

import (
	"time"
)

// Default TTLs for the session token pair.
const (
	DefaultAccessTTL  = 60 * time.Minute
	DefaultRefreshTTL = 120 * time.Minute
)

// TokenPair is a matched access/refresh pair minted together for one user.
// The two tokens share the user id but carry independent expiries and
// independent signatures.
type TokenPair struct {
	AccessToken        string `json:"access_token"`
	RefreshToken       string `json:"refresh_token"`
	AccessTokenExpire  int    `json:"access_token_expire"`
	RefreshTokenExpire int    `json:"refresh_token_expire"`
}

// TokenIssuer mints token pairs. Pure composition over the codec, no
// persistence.
type TokenIssuer struct {
	tokens     TokenService
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer creates an issuer with the configured TTLs. Non-positive
// values fall back to the 60/120 minute defaults.
func NewTokenIssuer(tokens TokenService, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}

	return &TokenIssuer{
		tokens:     tokens,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair mints a fresh access/refresh pair for the user.
func (ti *TokenIssuer) IssuePair(userID string) (*TokenPair, error) {
	access, err := ti.tokens.Encode(SubjectAccess, userID, ti.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := ti.tokens.Encode(SubjectRefresh, userID, ti.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:        access,
		RefreshToken:       refresh,
		AccessTokenExpire:  int(ti.accessTTL.Minutes()),
		RefreshTokenExpire: int(ti.refreshTTL.Minutes()),
	}, nil
}

// Refresh validates a refresh token and reissues the full pair, refresh
// token included. Codec failures propagate unchanged.
func (ti *TokenIssuer) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := ti.tokens.Decode(refreshToken, SubjectRefresh)
	if err != nil {
		return nil, err
	}

	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return ti.IssuePair(claims.UserID)
}
