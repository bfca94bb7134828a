package storefront

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ProductPage is one page of catalog results
type ProductPage struct {
	Items      []*Product `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalPages int        `json:"total_pages"`
}

const defaultPageSize = 20

// Products is the persistence surface for catalog entries
type Products interface {
	repository.Repository[*Product]

	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	GetProductTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Product, error)

	ListPage(ctx context.Context, page, perPage int) (*ProductPage, error)
	ListPageTx(ctx context.Context, tx bun.IDB, page, perPage int) (*ProductPage, error)

	UpdateFields(ctx context.Context, record *Product) (*Product, error)
	UpdateFieldsTx(ctx context.Context, tx bun.IDB, record *Product) (*Product, error)

	SoftDelete(ctx context.Context, id uuid.UUID) error
	SoftDeleteTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type products struct {
	repository.Repository[*Product]
	db *bun.DB
}

var (
	_ Products                        = (*products)(nil)
	_ repository.Repository[*Product] = (*products)(nil)
)

func NewProductsRepository(db *bun.DB) Products {
	repo := repository.NewRepository[*Product](db, repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Product, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})

	return &products{
		Repository: repo,
		db:         db,
	}
}

func (a *products) Create(ctx context.Context, record *Product, criteria ...repository.InsertCriteria) (*Product, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *products) CreateTx(ctx context.Context, tx bun.IDB, record *Product, criteria ...repository.InsertCriteria) (*Product, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *products) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return a.GetProductTx(ctx, a.db, id)
}

func (a *products) GetProductTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Product, error) {
	record := &Product{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

// ListPage pages the catalog; the embedded repository keeps its own
// criteria based List, so the paginated reader carries a distinct name.
func (a *products) ListPage(ctx context.Context, page, perPage int) (*ProductPage, error) {
	return a.ListPageTx(ctx, a.db, page, perPage)
}

func (a *products) ListPageTx(ctx context.Context, tx bun.IDB, page, perPage int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPageSize
	}

	var items []*Product
	total, err := tx.NewSelect().
		Model(&items).
		Order("prd.created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		ScanAndCount(ctx)

	if err != nil {
		return nil, err
	}

	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}

	return &ProductPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// UpdateFields writes the editable columns of a catalog entry
func (a *products) UpdateFields(ctx context.Context, record *Product) (*Product, error) {
	return a.UpdateFieldsTx(ctx, a.db, record)
}

func (a *products) UpdateFieldsTx(ctx context.Context, tx bun.IDB, record *Product) (*Product, error) {
	now := time.Now()
	record.UpdatedAt = &now

	res, err := tx.NewUpdate().
		Model(record).
		Column("name", "quantity", "price_per_unit", "updated_by_id", "updated_at").
		Where("?TableAlias.id = ?", record.ID).
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)

	if err != nil {
		return nil, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": record.ID.String()})
	}

	return record, nil
}

// SoftDelete marks the entry deleted; the model's soft delete column keeps
// the row around for the audit trail.
func (a *products) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return a.SoftDeleteTx(ctx, a.db, id)
}

func (a *products) SoftDeleteTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewDelete().
		Model((*Product)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}
