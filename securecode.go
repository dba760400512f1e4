package accounts

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// secureCodeSpace bounds the numeric draw to six decimal digits.
const secureCodeSpace = 1000000

// SecureCodeTTL is how long a password reset code stays redeemable.
const SecureCodeTTL = 30 * time.Minute

// GenerateSecureCode draws a 6-digit zero-padded code from a
// cryptographically strong source.
func GenerateSecureCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(secureCodeSpace))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate secure code")
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
