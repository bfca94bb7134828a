package storefront_test

import (
	"context"
	"strings"
	"sync"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	storefront "github.com/goliatone/go-storefront"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// memoryUserStore emulates the persistence collaborator, including the
// compare-and-swap semantics of Save. Reads return copies so callers cannot
// mutate stored state without going through Save.
type memoryUserStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*storefront.User
	calls     int
	saveCalls int
	failSave  error
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[uuid.UUID]*storefront.User{}}
}

func (s *memoryUserStore) add(u *storefront.User) *storefront.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.ID] = copyUser(u)
	return u
}

func (s *memoryUserStore) get(id uuid.UUID) *storefront.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return copyUser(u)
	}
	return nil
}

func (s *memoryUserStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *memoryUserStore) GetByEmail(ctx context.Context, email string) (*storefront.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}

	return nil, notFoundErr()
}

func (s *memoryUserStore) GetByRefreshToken(ctx context.Context, token string) (*storefront.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if token == "" {
		return nil, notFoundErr()
	}

	for _, u := range s.users {
		if u.RefreshToken == token {
			return copyUser(u), nil
		}
	}

	return nil, notFoundErr()
}

func (s *memoryUserStore) Save(ctx context.Context, user *storefront.User) (*storefront.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.saveCalls++

	if s.failSave != nil {
		return nil, s.failSave
	}

	stored, ok := s.users[user.ID]
	if !ok {
		return nil, notFoundErr()
	}

	if stored.Revision != user.Revision {
		return nil, storefront.ErrStaleRecord
	}

	user.Revision++
	s.users[user.ID] = copyUser(user)

	return user, nil
}

func (s *memoryUserStore) Register(ctx context.Context, user *storefront.User) (*storefront.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = copyUser(user)

	return user, nil
}

var (
	_ storefront.UserStore    = (*memoryUserStore)(nil)
	_ storefront.UserRegistry = (*memoryUserStore)(nil)
)

func copyUser(u *storefront.User) *storefront.User {
	if u == nil {
		return nil
	}
	dup := *u
	if u.RefreshTokenExpiresAt != nil {
		t := *u.RefreshTokenExpiresAt
		dup.RefreshTokenExpiresAt = &t
	}
	return &dup
}

// notFoundErr mirrors the error shape the bun backed repositories produce so
// the fakes exercise the same classification paths as the real collaborator
func notFoundErr() error {
	return repository.NewRecordNotFound()
}

// capturingAuditSink collects audit entries in memory
type capturingAuditSink struct {
	mu      sync.Mutex
	entries []*storefront.AuditLog
}

func (c *capturingAuditSink) AppendTx(ctx context.Context, tx bun.IDB, entry *storefront.AuditLog) (*storefront.AuditLog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	c.entries = append(c.entries, entry)
	return entry, nil
}

var _ storefront.AuditSink = (*capturingAuditSink)(nil)

func newTestConfig() *storefront.SignerConfig {
	return &storefront.SignerConfig{
		SigningKey:      "test-signing-key-0123456789abcdef",
		Issuer:          "storefront-test",
		Audience:        []string{"storefront-clients"},
		AccessTokenTTL:  10 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

const testPassword = "P@ssw0rd"

// bcrypt is deliberately slow; hash the fixture password once
var testPasswordHash = mustHash(testPassword)

func mustHash(password string) string {
	hash, err := storefront.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return hash
}

func seedTestUser(store *memoryUserStore, email, username string, role storefront.UserRole) *storefront.User {
	return store.add(&storefront.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		Role:         role,
		PasswordHash: testPasswordHash,
	})
}
