// Package gate is the authentication gate for the HTTP surface. It
// guards an explicit allow-list of protected paths with Bearer access
// tokens and lets every other request through anonymously.
package gate

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	accounts "github.com/teamforge/go-accounts"
)

// TokenDecoder validates a raw token string against an expected subject
// kind. It mirrors accounts.TokenService.Decode without pulling the full
// service into the middleware.
type TokenDecoder interface {
	Decode(tokenString, expectedSubject string) (*accounts.TokenClaims, error)
}

type Config struct {
	// Decoder is required
	Decoder TokenDecoder

	// Protected lists the paths that demand an access token. Entries
	// match exactly, with or without the trailing slash; an entry
	// ending in "/*" protects the whole subtree.
	Protected []string

	// AuthScheme defaults to "Bearer" and matches case sensitively.
	AuthScheme string

	// ContextKey is the Locals key holding the authenticated user id.
	ContextKey string

	ErrorHandler fiber.ErrorHandler
}

// New builds the middleware. Requests to unprotected paths and CORS
// preflights pass through without touching the Authorization header.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		if !isProtected(c.Path(), cfg.Protected) {
			return c.Next()
		}

		parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
		if len(parts) != 2 || parts[0] != cfg.AuthScheme {
			return cfg.ErrorHandler(c, accounts.ErrInvalidToken)
		}

		claims, err := cfg.Decoder.Decode(parts[1], accounts.SubjectAccess)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims.UserID)
		c.SetUserContext(accounts.WithUserID(c.UserContext(), claims.UserID))

		return c.Next()
	}
}

// UserID reads the authenticated user id stored by the middleware.
func UserID(c *fiber.Ctx, contextKey string) (string, bool) {
	id, ok := c.Locals(contextKey).(string)
	return id, ok && id != ""
}

func configDefault(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Decoder == nil {
		panic("ACCOUNTS: gate middleware configuration: Decoder is required.")
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user_id"
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing access token",
			})
		}
	}

	return cfg
}

func isProtected(path string, protected []string) bool {
	for _, entry := range protected {
		if prefix, ok := strings.CutSuffix(entry, "/*"); ok {
			// segment boundary only, so /projects/* never gates /projectsinfo/
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if trimSlash(path) == trimSlash(entry) {
			return true
		}
	}
	return false
}

func trimSlash(s string) string {
	if len(s) > 1 {
		return strings.TrimSuffix(s, "/")
	}
	return s
}
