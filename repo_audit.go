package storefront

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AuditLogs stores entity change entries
type AuditLogs interface {
	repository.Repository[*AuditLog]

	Append(ctx context.Context, entry *AuditLog) (*AuditLog, error)
	AppendTx(ctx context.Context, tx bun.IDB, entry *AuditLog) (*AuditLog, error)

	Recent(ctx context.Context, limit int) ([]*AuditLog, error)
}

type auditLogs struct {
	repository.Repository[*AuditLog]
	db *bun.DB
}

var _ AuditLogs = (*auditLogs)(nil)

func NewAuditLogsRepository(db *bun.DB) AuditLogs {
	repo := repository.NewRepository[*AuditLog](db, repository.ModelHandlers[*AuditLog]{
		NewRecord: func() *AuditLog { return &AuditLog{} },
		GetID: func(l *AuditLog) uuid.UUID {
			if l == nil {
				return uuid.Nil
			}
			return l.ID
		},
		SetID: func(l *AuditLog, id uuid.UUID) {
			if l != nil {
				l.ID = id
			}
		},
	})

	return &auditLogs{
		Repository: repo,
		db:         db,
	}
}

func (a *auditLogs) Append(ctx context.Context, entry *AuditLog) (*AuditLog, error) {
	return a.AppendTx(ctx, a.db, entry)
}

func (a *auditLogs) AppendTx(ctx context.Context, tx bun.IDB, entry *AuditLog) (*AuditLog, error) {
	if entry != nil && entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, entry)
}

func (a *auditLogs) Recent(ctx context.Context, limit int) ([]*AuditLog, error) {
	if limit < 1 {
		limit = 50
	}

	var entries []*AuditLog
	err := a.db.NewSelect().
		Model(&entries).
		Order("adt.created_at DESC").
		Limit(limit).
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return entries, nil
}
