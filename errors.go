package accounts

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients next to the HTTP status.
const (
	TextCodeInvalidToken     = "INVALID_TOKEN"
	TextCodeWrongSubject     = "WRONG_SUBJECT"
	TextCodeBadCredentials   = "BAD_CREDENTIALS"
	TextCodeEmailNotVerified = "EMAIL_NOT_VERIFIED"
	TextCodeUserNotFound     = "USER_NOT_FOUND"
	TextCodeInvalidCode      = "INVALID_CODE"
	TextCodeCodeExpired      = "CODE_EXPIRED"
	TextCodeDeliveryFailed   = "DELIVERY_FAILED"
	TextCodeCompanyNotFound  = "COMPANY_NOT_FOUND"
)

// ErrInvalidToken covers malformed, unsigned, tampered, and expired tokens.
var ErrInvalidToken = goerrors.New("invalid or expired token", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken)

// ErrWrongSubject is returned when a token of the wrong kind is presented,
// e.g. a refresh token where an access token is expected.
var ErrWrongSubject = goerrors.New("unexpected token subject", goerrors.CategoryAuth).
	WithTextCode(TextCodeWrongSubject)

// ErrInvalidCredentials is the generic bad email/password rejection.
var ErrInvalidCredentials = goerrors.New("incorrect credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials)

// ErrEmailNotVerified rejects logins while the verified-email policy is on.
var ErrEmailNotVerified = goerrors.New("email address has not been verified", goerrors.CategoryAuth).
	WithTextCode(TextCodeEmailNotVerified)

// ErrUserNotFound is returned when no user matches the given email or id.
var ErrUserNotFound = goerrors.New("no user with the given identifier", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound)

// ErrInvalidCode is returned when a secure code is unknown or already consumed.
var ErrInvalidCode = goerrors.New("invalid secure code", goerrors.CategoryConflict).
	WithTextCode(TextCodeInvalidCode)

// ErrCodeExpired is returned when a secure code exists but is past its expiry.
var ErrCodeExpired = goerrors.New("secure code has expired", goerrors.CategoryConflict).
	WithTextCode(TextCodeCodeExpired)

// ErrCompanyNotFound is returned when the company registry has no entry
// for the given tax id.
var ErrCompanyNotFound = goerrors.New("no company with the given tax id", goerrors.CategoryNotFound).
	WithTextCode(TextCodeCompanyNotFound)

// hasTextCode reports whether any error in the chain carries the given
// rich error text code.
func hasTextCode(err error, code string) bool {
	for err != nil {
		var rich *goerrors.Error
		if goerrors.As(err, &rich) && rich.TextCode == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsInvalidToken checks for token decode failures, expiry included.
func IsInvalidToken(err error) bool { return hasTextCode(err, TextCodeInvalidToken) }

// IsWrongSubject checks for token kind mismatches.
func IsWrongSubject(err error) bool { return hasTextCode(err, TextCodeWrongSubject) }

// IsUserNotFound checks for missing user lookups.
func IsUserNotFound(err error) bool { return hasTextCode(err, TextCodeUserNotFound) }

// IsInvalidCode checks for unknown or already consumed secure codes.
func IsInvalidCode(err error) bool { return hasTextCode(err, TextCodeInvalidCode) }

// IsCodeExpired checks for expired secure codes.
func IsCodeExpired(err error) bool { return hasTextCode(err, TextCodeCodeExpired) }

// IsDeliveryError checks for email delivery failures.
func IsDeliveryError(err error) bool { return hasTextCode(err, TextCodeDeliveryFailed) }
