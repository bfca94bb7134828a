package storefront

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// SignerConfig is the concrete Config. Zero values are filled with the
// defaults the backend has always shipped with: 10 minute access tokens,
// 7 day refresh tokens.
type SignerConfig struct {
	SigningKey      string
	Issuer          string
	Audience        []string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ContextKey      string
	AuthScheme      string
}

const (
	// DefaultAccessTokenTTL matches the original deployment value
	DefaultAccessTokenTTL = 10 * time.Minute
	// DefaultRefreshTokenTTL is one week
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

var _ Config = (*SignerConfig)(nil)

func (c *SignerConfig) GetSigningKey() string { return c.SigningKey }
func (c *SignerConfig) GetIssuer() string     { return c.Issuer }

func (c *SignerConfig) GetAudience() []string { return c.Audience }

func (c *SignerConfig) GetAccessTokenTTL() time.Duration {
	if c.AccessTokenTTL <= 0 {
		return DefaultAccessTokenTTL
	}
	return c.AccessTokenTTL
}

func (c *SignerConfig) GetRefreshTokenTTL() time.Duration {
	if c.RefreshTokenTTL <= 0 {
		return DefaultRefreshTokenTTL
	}
	return c.RefreshTokenTTL
}

func (c *SignerConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c *SignerConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

// LoadConfig reads configuration from the environment, loading a local .env
// file first when present.
func LoadConfig() *SignerConfig {
	_ = godotenv.Load()

	cfg := &SignerConfig{
		SigningKey: os.Getenv("JWT_SIGNING_KEY"),
		Issuer:     envOr("JWT_ISSUER", "go-storefront"),
		ContextKey: os.Getenv("JWT_CONTEXT_KEY"),
		AuthScheme: os.Getenv("JWT_AUTH_SCHEME"),
	}

	if aud := os.Getenv("JWT_AUDIENCE"); aud != "" {
		cfg.Audience = []string{aud}
	}

	if mins := envInt("ACCESS_TOKEN_MINUTES", 0); mins > 0 {
		cfg.AccessTokenTTL = time.Duration(mins) * time.Minute
	}

	if days := envInt("REFRESH_TOKEN_DAYS", 0); days > 0 {
		cfg.RefreshTokenTTL = time.Duration(days) * 24 * time.Hour
	}

	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
