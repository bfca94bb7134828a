package storefront

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds signing and session options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetContextKey() string
	GetAuthScheme() string
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// IdentityVerifier is the credential collaborator. Password storage and
// verification live behind this boundary, not in the session core.
type IdentityVerifier interface {
	VerifyPassword(user *User, plaintext string) bool
	CreateUser(ctx context.Context, profile *User, plaintext string) (*User, error)
}

// UserStore is the persistence surface the session core needs. Save is a
// compare-and-swap on the record revision: concurrent writers lose with
// ErrStaleRecord instead of silently clobbering the refresh token slot.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByRefreshToken(ctx context.Context, token string) (*User, error)
	Save(ctx context.Context, user *User) (*User, error)
}

// AuthSession pairs one access token with one refresh token. It is never
// stored; the user record is the single source of truth.
type AuthSession struct {
	UserID                string     `json:"user_id"`
	Email                 string     `json:"email"`
	Username              string     `json:"username"`
	Role                  string     `json:"role,omitempty"`
	AccessToken           string     `json:"access_token"`
	RefreshToken          string     `json:"refresh_token"`
	AccessTokenExpiresAt  *time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt *time.Time `json:"refresh_token_expires_at"`
}

// TokenResponse is a token paired with its expiration
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] STOREFRONT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] STOREFRONT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] STOREFRONT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] STOREFRONT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
