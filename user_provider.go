package storefront

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// UserRegistry is the slice of the users repository the identity collaborator
// needs: lookup for duplicate checks and a way to persist new accounts.
type UserRegistry interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
}

// UserProvider owns credential verification and account creation. The
// session core never sees password material; it only asks this collaborator
// for a yes or no.
type UserProvider struct {
	store  UserRegistry
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserRegistry) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	u.logger = l
	return u
}

var _ IdentityVerifier = (*UserProvider)(nil)

// VerifyPassword checks the plaintext against the user's stored hash
func (u *UserProvider) VerifyPassword(user *User, plaintext string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}

	if err := ComparePasswordAndHash(plaintext, user.PasswordHash); err != nil {
		return false
	}

	return true
}

// CreateUser hashes the password and persists a new account. The profile's
// role defaults to RoleUser and the username falls back to the email local
// part when empty.
func (u *UserProvider) CreateUser(ctx context.Context, profile *User, plaintext string) (*User, error) {
	if profile == nil {
		return nil, errors.New("profile must not be nil", errors.CategoryBadInput)
	}

	hash, err := HashPassword(plaintext)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, errors.Wrap(richErr, errors.CategoryValidation, "invalid password provided")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	profile.PasswordHash = hash
	profile.Username = getUsername(profile.Username, profile.Email)

	if profile.Role == "" {
		profile.Role = RoleUser
	}

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	created, err := u.store.Register(ctx, profile)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create user")
	}

	u.logger.Info("user registered", "user_id", created.ID.String(), "role", created.Role)

	return created, nil
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}

// authIdentity adapts a user record to the Identity interface
type authIdentity struct {
	id       string
	username string
	email    string
	role     string
}

func (a authIdentity) ID() string       { return a.id }
func (a authIdentity) Username() string { return a.username }
func (a authIdentity) Email() string    { return a.email }
func (a authIdentity) Role() string     { return a.role }

var _ Identity = authIdentity{}

// IdentityFromUser wraps a user record in the Identity interface
func IdentityFromUser(user *User) Identity {
	if user == nil {
		return nil
	}
	return authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		role:     string(user.Role),
	}
}
