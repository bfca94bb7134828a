package storefront_test

import (
	"context"
	"testing"
	"time"

	storefront "github.com/goliatone/go-storefront"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func insertProduct(t *testing.T, db *bun.DB, record *storefront.Product) *storefront.Product {
	t.Helper()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	_, err := db.NewInsert().Model(record).Exec(context.Background())
	require.NoError(t, err)

	return record
}

func seedCatalog(t *testing.T, db *bun.DB) []*storefront.Product {
	t.Helper()

	base := time.Now().Add(-time.Hour)
	names := []string{"Keyboard", "Mouse", "Monitor"}

	out := make([]*storefront.Product, 0, len(names))
	for i, name := range names {
		createdAt := base.Add(time.Duration(i) * time.Minute)
		out = append(out, insertProduct(t, db, &storefront.Product{
			Name:         name,
			Quantity:     10 * (i + 1),
			PricePerUnit: float64(i+1) * 10,
			CreatedAt:    &createdAt,
		}))
	}

	return out
}

func TestProductsRepositoryGet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := storefront.NewProductsRepository(db)

	seeded := insertProduct(t, db, &storefront.Product{Name: "Keyboard", Quantity: 25, PricePerUnit: 49.90})

	t.Run("returns the record", func(t *testing.T) {
		found, err := repo.GetProduct(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "Keyboard", found.Name)
		assert.Equal(t, 25, found.Quantity)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		_, err := repo.GetProduct(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, storefront.IsRecordNotFound(err))
	})
}

func TestProductsRepositoryList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := storefront.NewProductsRepository(db)

	seedCatalog(t, db)

	t.Run("pages newest first", func(t *testing.T) {
		page, err := repo.ListPage(ctx, 1, 2)
		require.NoError(t, err)

		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Monitor", page.Items[0].Name)

		last, err := repo.ListPage(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, last.Items, 1)
		assert.Equal(t, "Keyboard", last.Items[0].Name)
	})

	t.Run("out of range page is empty but keeps totals", func(t *testing.T) {
		page, err := repo.ListPage(ctx, 5, 2)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 3, page.Total)
	})

	t.Run("zero values fall back to defaults", func(t *testing.T) {
		page, err := repo.ListPage(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Len(t, page.Items, 3)
	})
}

func TestProductsRepositoryUpdateFields(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := storefront.NewProductsRepository(db)

	seeded := insertProduct(t, db, &storefront.Product{Name: "Keyboard", Quantity: 25, PricePerUnit: 49.90})

	t.Run("writes the editable columns", func(t *testing.T) {
		updated, err := repo.UpdateFields(ctx, &storefront.Product{
			ID:           seeded.ID,
			Name:         "Mechanical Keyboard",
			Quantity:     20,
			PricePerUnit: 89.90,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.UpdatedAt)

		reloaded, err := repo.GetProduct(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mechanical Keyboard", reloaded.Name)
		assert.Equal(t, 20, reloaded.Quantity)
		assert.Equal(t, 89.90, reloaded.PricePerUnit)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		_, err := repo.UpdateFields(ctx, &storefront.Product{
			ID:           uuid.New(),
			Name:         "Ghost",
			Quantity:     1,
			PricePerUnit: 1,
		})
		require.Error(t, err)
		assert.True(t, storefront.IsRecordNotFound(err))
	})
}

func TestProductsRepositorySoftDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := storefront.NewProductsRepository(db)

	seeded := insertProduct(t, db, &storefront.Product{Name: "Mouse", Quantity: 40, PricePerUnit: 19.90})

	require.NoError(t, repo.SoftDelete(ctx, seeded.ID))

	t.Run("record disappears from reads", func(t *testing.T) {
		_, err := repo.GetProduct(ctx, seeded.ID)
		require.Error(t, err)
		assert.True(t, storefront.IsRecordNotFound(err))

		page, err := repo.ListPage(ctx, 1, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("the row is kept for the audit trail", func(t *testing.T) {
		count, err := db.NewSelect().
			Model((*storefront.Product)(nil)).
			WhereAllWithDeleted().
			Where("?TableAlias.deleted_at IS NOT NULL").
			Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("deleting again reports not found", func(t *testing.T) {
		err := repo.SoftDelete(ctx, seeded.ID)
		require.Error(t, err)
		assert.True(t, storefront.IsRecordNotFound(err))
	})

	t.Run("updates no longer reach the record", func(t *testing.T) {
		_, err := repo.UpdateFields(ctx, &storefront.Product{
			ID:           seeded.ID,
			Name:         "Zombie Mouse",
			Quantity:     1,
			PricePerUnit: 1,
		})
		require.Error(t, err)
		assert.True(t, storefront.IsRecordNotFound(err))
	})
}

func TestAuditLogsRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := storefront.NewAuditLogsRepository(db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		createdAt := base.Add(time.Duration(i) * time.Minute)
		_, err := repo.Append(ctx, &storefront.AuditLog{
			EntityType: "product",
			EntityID:   uuid.NewString(),
			Action:     storefront.AuditActionUpdate,
			Changes:    `{"quantity":{"from":1,"to":2}}`,
			CreatedAt:  &createdAt,
		})
		require.NoError(t, err)
	}

	t.Run("recent returns newest first", func(t *testing.T) {
		entries, err := repo.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.True(t, entries[0].CreatedAt.After(*entries[1].CreatedAt))
	})

	t.Run("non positive limit falls back to the default", func(t *testing.T) {
		entries, err := repo.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}
