package storefront

import (
	"github.com/goliatone/go-errors"
)

// Refresh token lifecycle errors. The messages are part of the API contract:
// callers and clients match on them, so they stay stable even where the
// wording is awkward.
var (
	// ErrTokenNil is returned when a refresh or logout request carries no token
	ErrTokenNil = errors.New("Token is null", errors.CategoryAuth).
			WithTextCode("TOKEN_NULL").
			WithCode(errors.CodeUnauthorized)

	// ErrTokenNotHeld is returned by Refresh when no user currently holds
	// the presented token
	ErrTokenNotHeld = errors.New("User is null", errors.CategoryAuth).
			WithTextCode("TOKEN_NOT_HELD").
			WithCode(errors.CodeUnauthorized)

	// ErrTokenNotValid is returned when the presented refresh token is
	// expired. The token is revoked before this error surfaces.
	ErrTokenNotValid = errors.New("Token not valid", errors.CategoryAuth).
				WithTextCode("TOKEN_EXPIRED").
				WithCode(errors.CodeUnauthorized)

	// ErrTokenNotOwned is returned by Logout and Revoke when no user holds
	// the presented token. Logout is not idempotent: revoking twice fails
	// the second time with this error.
	ErrTokenNotOwned = errors.New("User does not have this token", errors.CategoryAuth).
			WithTextCode("TOKEN_NOT_OWNED").
			WithCode(errors.CodeUnauthorized)
)

// ErrStaleRecord signals a lost compare-and-swap: the record revision changed
// between read and write. The caller must re-read and retry the whole
// operation; nothing was persisted.
var ErrStaleRecord = errors.New("record was modified concurrently", errors.CategoryConflict).
	WithTextCode("STALE_RECORD")

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrMismatchedHashAndPassword password verification failed
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithTextCode("BAD_CREDENTIALS")

// ErrNoEmptyString we refuse to hash an empty password
var ErrNoEmptyString = errors.New("can not hash an empty string", errors.CategoryBadInput).
	WithTextCode("EMPTY_PASSWORD")

// ErrTokenExpired access token is past its expiration
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode("ACCESS_TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed access token could not be parsed
var ErrTokenMalformed = errors.New("invalid or malformed authentication token", errors.CategoryAuth).
	WithTextCode("ACCESS_TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession unable to decode claims from an access token
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithTextCode("SESSION_DECODE")
