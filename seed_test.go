package storefront_test

import (
	"context"
	"testing"

	storefront "github.com/goliatone/go-storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := storefront.NewRepositoryManager(db)

	users := []storefront.SeedUser{
		{Username: "testuser", Email: "testuser@example.com", Password: testPassword, Role: storefront.RoleUser},
	}
	catalog := []*storefront.Product{
		{Name: "Keyboard", Quantity: 25, PricePerUnit: 49.90},
		{Name: "Mouse", Quantity: 40, PricePerUnit: 19.90},
	}

	require.NoError(t, storefront.Seed(ctx, repo, users, catalog))

	t.Run("provisions accounts and catalog", func(t *testing.T) {
		seeded, err := repo.Users().GetByEmail(ctx, "testuser@example.com")
		require.NoError(t, err)
		assert.Equal(t, "testuser", seeded.Username)
		assert.NotEmpty(t, seeded.PasswordHash)

		page, err := repo.Products().ListPage(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	})

	t.Run("running again changes nothing", func(t *testing.T) {
		require.NoError(t, storefront.Seed(ctx, repo, users, catalog))

		page, err := repo.Products().ListPage(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	})

	t.Run("seeded credentials log in", func(t *testing.T) {
		auther := storefront.NewAuthenticator(repo.Users(), storefront.NewUserProvider(repo.Users()), newTestConfig())

		session, err := auther.Authenticate(ctx, "testuser@example.com", testPassword)
		require.NoError(t, err)
		require.NotNil(t, session)
	})
}
