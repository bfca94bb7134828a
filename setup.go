package storefront

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// OpenDB opens a sqlite backed bun DB. Use ":memory:" or a
// "file:...?cache=shared" DSN for tests.
func OpenDB(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateSchema creates the backing tables when they do not exist yet
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*User)(nil),
		(*Product)(nil),
		(*AuditLog)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	// the refresh token lookup is an indexed equality probe, never a scan
	if _, err := db.NewCreateIndex().
		Model((*User)(nil)).
		Index("idx_users_refresh_token").
		Column("refresh_token").
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}

	return nil
}
