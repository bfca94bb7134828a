package jwtware_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-storefront/middleware/jwtware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClaims struct {
	userID string
	role   string
}

func (s stubClaims) UserID() string { return s.userID }
func (s stubClaims) Role() string   { return s.role }

func (s stubClaims) HasRole(role string) bool { return s.role == role }

func (s stubClaims) IsAtLeast(minRole string) bool {
	rank := map[string]int{"user": 1, "admin": 2}
	return rank[s.role] >= rank[minRole]
}

// stubValidator accepts exactly one token string
func stubValidator(accept string, claims jwtware.AuthClaims) jwtware.ValidatorFunc {
	return func(tokenString string) (jwtware.AuthClaims, error) {
		if tokenString == accept {
			return claims, nil
		}
		return nil, errors.New("invalid token")
	}
}

func newGuardedApp(validator jwtware.TokenValidator, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()

	handlers := []fiber.Handler{jwtware.New(jwtware.Config{Validator: validator})}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		claims, ok := jwtware.ClaimsFromContext(c, "")
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"user_id": claims.UserID()})
	})

	app.Get("/protected", handlers...)

	return app
}

func TestJWTMiddleware(t *testing.T) {
	validator := stubValidator("good-token", stubClaims{userID: "u-1", role: "user"})

	t.Run("valid bearer token passes and claims land in locals", func(t *testing.T) {
		app := newGuardedApp(validator)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		app := newGuardedApp(validator)

		resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong scheme is rejected", func(t *testing.T) {
		app := newGuardedApp(validator)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Basic good-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("scheme comparison is case insensitive", func(t *testing.T) {
		app := newGuardedApp(validator)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "bearer good-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		app := newGuardedApp(validator)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("role below the minimum is forbidden", func(t *testing.T) {
		validator := stubValidator("user-token", stubClaims{userID: "u-1", role: "user"})
		app := newGuardedApp(validator, jwtware.RequireRole("", "admin"))

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer user-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("sufficient role passes", func(t *testing.T) {
		validator := stubValidator("admin-token", stubClaims{userID: "a-1", role: "admin"})
		app := newGuardedApp(validator, jwtware.RequireRole("", "admin"))

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer admin-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("unauthenticated request is rejected outright", func(t *testing.T) {
		app := fiber.New()
		app.Get("/admin", jwtware.RequireRole("", "admin"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
