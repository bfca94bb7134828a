// Package jwtware guards fiber routes with HS256 access token validation.
// It mirrors the claim surface of the root package through local interfaces
// to avoid an import cycle.
package jwtware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")

// AuthClaims is the slice of validated claims the middleware needs
type AuthClaims interface {
	UserID() string
	Role() string
	HasRole(role string) bool
	IsAtLeast(minRole string) bool
}

// TokenValidator validates tokens and extracts claims without tying the
// middleware to a specific signing implementation
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// ValidatorFunc adapts a function into a TokenValidator
type ValidatorFunc func(tokenString string) (AuthClaims, error)

func (f ValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrJWTMissingOrMalformed
	}
	return f(tokenString)
}

// Config holds middleware options
type Config struct {
	// Validator checks the raw token and returns its claims. Required.
	Validator TokenValidator
	// ContextKey is where validated claims are stored on the request.
	// Defaults to "user".
	ContextKey string
	// AuthScheme is the expected Authorization prefix. Defaults to "Bearer".
	AuthScheme string
	// ErrorHandler runs on missing or invalid tokens. Defaults to a JSON 401.
	ErrorHandler fiber.Handler
}

func (c *Config) setDefaults() {
	if c.ContextKey == "" {
		c.ContextKey = "user"
	}
	if c.AuthScheme == "" {
		c.AuthScheme = "Bearer"
	}
	if c.ErrorHandler == nil {
		c.ErrorHandler = func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing authentication token",
			})
		}
	}
}

// New returns a handler that rejects requests without a valid access token
// and stores the validated claims under Config.ContextKey.
func New(cfg Config) fiber.Handler {
	if cfg.Validator == nil {
		panic("jwtware: Config.Validator is required")
	}
	cfg.setDefaults()

	return func(c *fiber.Ctx) error {
		raw, err := tokenFromHeader(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c)
		}

		claims, err := cfg.Validator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c)
		}

		c.Locals(cfg.ContextKey, claims)

		return c.Next()
	}
}

// RequireRole returns a handler that rejects authenticated requests whose
// role is below the minimum. It must run after New.
func RequireRole(contextKey, minRole string) fiber.Handler {
	if contextKey == "" {
		contextKey = "user"
	}

	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(contextKey).(AuthClaims)
		if !ok || claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		if !claims.IsAtLeast(minRole) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient role",
			})
		}

		return c.Next()
	}
}

// ClaimsFromContext retrieves validated claims stored by New
func ClaimsFromContext(c *fiber.Ctx, contextKey string) (AuthClaims, bool) {
	if contextKey == "" {
		contextKey = "user"
	}
	claims, ok := c.Locals(contextKey).(AuthClaims)
	return claims, ok && claims != nil
}

func tokenFromHeader(header, scheme string) (string, error) {
	if header == "" {
		return "", ErrJWTMissingOrMalformed
	}

	if scheme == "" {
		return header, nil
	}

	prefix := scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrJWTMissingOrMalformed
	}

	return strings.TrimSpace(header[len(prefix):]), nil
}
