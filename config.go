package accounts

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// Config carries everything the service reads from the environment.
type Config struct {
	HTTPHost   string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort   int    `env:"HTTP_PORT" envDefault:"8000"`
	ServiceURL string `env:"SERVICE_URL" envDefault:"http://localhost:8000"`

	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"file:accounts.db?cache=shared"`

	SecretKey    string `env:"SECRET_KEY,required" json:"-"`
	JWTAlgorithm string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	// token lifetimes in minutes
	JWTAccessTTL  int `env:"JWT_ACCESS_TTL" envDefault:"60"`
	JWTRefreshTTL int `env:"JWT_REFRESH_TTL" envDefault:"120"`
	JWTVerifyTTL  int `env:"JWT_VERIFY_TTL" envDefault:"1440"`

	TokenType            string `env:"TOKEN_TYPE" envDefault:"Bearer"`
	AuthContextKey       string `env:"AUTH_CONTEXT_KEY" envDefault:"user_id"`
	RequireVerifiedEmail bool   `env:"AUTH_REQUIRE_VERIFIED_EMAIL" envDefault:"false"`

	EmailHost     string `env:"EMAIL_HOST"`
	EmailPort     int    `env:"EMAIL_PORT" envDefault:"465"`
	EmailUser     string `env:"EMAIL_HOST_USER"`
	EmailPassword string `env:"EMAIL_HOST_PASSWORD" json:"-"`

	RegistryAPIKey string `env:"API_FNS_KEY" json:"-"`

	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"templates"`
	UploadsDir   string `env:"UPLOADS_DIR" envDefault:"uploads"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse environment")
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// AccessTTL is the access token lifetime.
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTL) * time.Minute
}

// RefreshTTL is the refresh token lifetime.
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWTRefreshTTL) * time.Minute
}

// VerifyTTL is the email verification token lifetime.
func (c *Config) VerifyTTL() time.Duration {
	return time.Duration(c.JWTVerifyTTL) * time.Minute
}
