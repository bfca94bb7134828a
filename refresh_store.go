package storefront

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/goliatone/go-errors"
)

// refreshTokenBytes is the entropy behind each opaque refresh token. 48
// random bytes keeps brute force infeasible over the token's lifetime.
const refreshTokenBytes = 48

// RefreshTokenStore generates, persists, validates, and revokes the single
// refresh token slot on a user record.
type RefreshTokenStore struct {
	store  UserStore
	ttl    time.Duration
	logger Logger
	now    func() time.Time
}

// NewRefreshTokenStore creates a store bound to the user persistence layer
func NewRefreshTokenStore(store UserStore, cfg Config, logger Logger) *RefreshTokenStore {
	if logger == nil {
		logger = defLogger{}
	}
	return &RefreshTokenStore{
		store:  store,
		ttl:    cfg.GetRefreshTokenTTL(),
		logger: logger,
		now:    time.Now,
	}
}

// Generate mints a new opaque token, writes it into the user's slot
// (superseding any prior token, which becomes invalid immediately), persists
// the user, and returns the token with its expiration.
func (r *RefreshTokenStore) Generate(ctx context.Context, user *User) (TokenResponse, error) {
	if user == nil {
		return TokenResponse{}, errors.New("user must not be nil", errors.CategoryBadInput)
	}

	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return TokenResponse{}, errors.Wrap(err, errors.CategoryInternal, "failed to read random bytes")
	}

	token := base64.StdEncoding.EncodeToString(buf)
	expiresAt := r.now().Add(r.ttl)

	user.SetRefreshToken(token, expiresAt)

	if _, err := r.store.Save(ctx, user); err != nil {
		return TokenResponse{}, err
	}

	r.logger.Debug("refresh token rotated", "user_id", user.ID.String())

	return TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// Validate reports whether the user's stored refresh token is still live.
// It checks expiration only: equality between the presented string and the
// stored one is the caller's responsibility, since the caller already looked
// the user up by token. Do not add a redundant equality check here; that
// division of responsibility is the contract.
func (r *RefreshTokenStore) Validate(token string, user *User) bool {
	if user == nil {
		return false
	}
	return !user.RefreshTokenExpired(r.now())
}

// Revoke clears the slot of whichever user currently holds the given token.
// Both fields are cleared together and persisted. When no user holds the
// token, Revoke fails with ErrTokenNotOwned; revocation is deliberately not
// idempotent.
func (r *RefreshTokenStore) Revoke(ctx context.Context, token string) error {
	user, err := r.store.GetByRefreshToken(ctx, token)
	if err != nil {
		if IsRecordNotFound(err) {
			return ErrTokenNotOwned
		}
		return err
	}

	if user == nil {
		return ErrTokenNotOwned
	}

	user.ClearRefreshToken()

	if _, err := r.store.Save(ctx, user); err != nil {
		return err
	}

	r.logger.Info("refresh token revoked", "user_id", user.ID.String())

	return nil
}
