package storefront

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// Auther orchestrates login, refresh, and logout. The per user session state
// machine (no session, active, expired) is encoded entirely in the persisted
// refresh token fields; Auther keeps no session state of its own and re-reads
// the user record on every operation.
type Auther struct {
	users         UserStore
	verifier      IdentityVerifier
	tokenService  TokenService
	refreshTokens *RefreshTokenStore
	logger        Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users UserStore, verifier IdentityVerifier, cfg Config) *Auther {
	logger := defLogger{}
	return &Auther{
		users:         users,
		verifier:      verifier,
		tokenService:  NewTokenService(cfg, logger),
		refreshTokens: NewRefreshTokenStore(users, cfg, logger),
		logger:        logger,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithTokenService overrides the access token issuer
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	s.tokenService = ts
	return s
}

// WithRefreshTokenStore overrides the refresh token store
func (s *Auther) WithRefreshTokenStore(store *RefreshTokenStore) *Auther {
	s.refreshTokens = store
	return s
}

// TokenService returns the access token issuer used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Authenticate verifies credentials and opens a new session. A missing user
// and a wrong password are indistinguishable to the caller: both return
// (nil, nil) so the transport maps them to one generic bad-credentials
// response. Input is validated before any storage access.
func (s *Auther) Authenticate(ctx context.Context, email, password string) (*AuthSession, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if !s.verifier.VerifyPassword(user, password) {
		s.logger.Info("authentication failed", "email", email)
		return nil, nil
	}

	accessToken, err := s.tokenService.CreateToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.refreshTokens.Generate(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session opened", "user_id", user.ID.String())

	return &AuthSession{
		UserID:                user.ID.String(),
		Email:                 user.Email,
		Username:              user.Username,
		AccessToken:           accessToken.Token,
		RefreshToken:          refreshToken.Token,
		AccessTokenExpiresAt:  &accessToken.ExpiresAt,
		RefreshTokenExpiresAt: &refreshToken.ExpiresAt,
	}, nil
}

// Refresh exchanges a live refresh token for a new access and refresh pair.
// The presented token is superseded on success. The expiration check runs
// strictly before rotation: an expired token is revoked and never used to
// mint a new session.
func (s *Auther) Refresh(ctx context.Context, token string) (*AuthSession, error) {
	if token == "" {
		return nil, ErrTokenNil
	}

	user, err := s.users.GetByRefreshToken(ctx, token)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrTokenNotHeld
		}
		return nil, err
	}

	if user == nil {
		return nil, ErrTokenNotHeld
	}

	if !s.refreshTokens.Validate(token, user) {
		if err := s.refreshTokens.Revoke(ctx, token); err != nil {
			return nil, err
		}
		s.logger.Info("expired refresh token revoked", "user_id", user.ID.String())
		return nil, ErrTokenNotValid
	}

	accessToken, err := s.tokenService.CreateToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.refreshTokens.Generate(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthSession{
		UserID:                user.ID.String(),
		Email:                 user.Email,
		Username:              user.Username,
		Role:                  string(user.Role),
		AccessToken:           accessToken.Token,
		RefreshToken:          refreshToken.Token,
		AccessTokenExpiresAt:  &accessToken.ExpiresAt,
		RefreshTokenExpiresAt: &refreshToken.ExpiresAt,
	}, nil
}

// Logout revokes the presented refresh token, ending the session. A second
// call with the same string fails with ErrTokenNotOwned; logout is not
// idempotent.
func (s *Auther) Logout(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, ErrTokenNil
	}

	if err := s.refreshTokens.Revoke(ctx, token); err != nil {
		return false, err
	}

	return true, nil
}

// SessionFromToken validates an access token string and returns its claims
func (s *Auther) SessionFromToken(raw string) (AuthClaims, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("session from token validation failed", "error", err)
		return nil, err
	}
	return claims, nil
}

func validateCredentials(email, password string) error {
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.Email),
		"password": validation.Validate(password, validation.Required, validation.Length(6, 254)),
	}.Filter()

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid credentials payload").
			WithTextCode("INVALID_CREDENTIALS_PAYLOAD")
	}

	return nil
}
