package storefront

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the persistence surface for user records. Save carries the
// optimistic concurrency contract described on UserStore.
type Users interface {
	repository.Repository[*User]

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)

	GetByRefreshToken(ctx context.Context, token string) (*User, error)
	GetByRefreshTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error)

	Save(ctx context.Context, user *User) (*User, error)
	SaveTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
	_ UserStore                    = (*users)(nil)
	_ UserRegistry                 = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, repository.NewRecordNotFound()
	}

	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("lower(?TableAlias.email) = lower(?)", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, err
	}

	return record, nil
}

// GetByRefreshToken resolves the one user holding the given token via an
// indexed equality lookup. An empty token never matches: the column is NULL
// for users with no session and we must not treat that as a hit.
func (a *users) GetByRefreshToken(ctx context.Context, token string) (*User, error) {
	return a.GetByRefreshTokenTx(ctx, a.db, token)
}

func (a *users) GetByRefreshTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error) {
	if token == "" {
		return nil, repository.NewRecordNotFound()
	}

	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.refresh_token = ?", token).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound()
		}
		return nil, err
	}

	return record, nil
}

// Save persists the user's mutable fields guarded by a revision check. A
// concurrent writer that landed first makes this call fail with
// ErrStaleRecord and nothing is written.
func (a *users) Save(ctx context.Context, user *User) (*User, error) {
	return a.SaveTx(ctx, a.db, user)
}

func (a *users) SaveTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, goerrors.New("user must have an id to be saved", goerrors.CategoryBadInput)
	}

	expected := user.Revision
	now := time.Now()
	user.UpdatedAt = &now
	user.Revision = expected + 1

	res, err := tx.NewUpdate().
		Model(user).
		Column(
			"user_role",
			"username",
			"email",
			"password_hash",
			"refresh_token",
			"refresh_token_expires_at",
			"revision",
			"updated_at",
		).
		Where("?TableAlias.id = ?", user.ID).
		Where("?TableAlias.revision = ?", expected).
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)

	if err != nil {
		user.Revision = expected
		return nil, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		user.Revision = expected
		return nil, err
	}

	if rows == 0 {
		user.Revision = expected
		return nil, ErrStaleRecord
	}

	return user, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

// IsRecordNotFound reports not-found errors from either the repository layer
// or the error taxonomy.
func IsRecordNotFound(err error) bool {
	return repository.IsRecordNotFound(err) || goerrors.IsNotFound(err)
}
