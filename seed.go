package storefront

import (
	"context"

	"github.com/goliatone/go-errors"
)

// SeedUser describes one account to provision at startup
type SeedUser struct {
	Username string
	Email    string
	Password string
	Role     UserRole
}

// DefaultSeedUsers are the accounts the original deployment ships with
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{Username: "testuser", Email: "testuser@example.com", Password: "P@ssw0rd", Role: RoleUser},
		{Username: "admin", Email: "admin@example.com", Password: "P@ssw0rd", Role: RoleAdmin},
	}
}

// DefaultSeedProducts is a small starter catalog
func DefaultSeedProducts() []*Product {
	return []*Product{
		{Name: "Keyboard", Quantity: 25, PricePerUnit: 49.90},
		{Name: "Mouse", Quantity: 40, PricePerUnit: 19.90},
		{Name: "Monitor", Quantity: 12, PricePerUnit: 179.00},
	}
}

// Seed provisions missing accounts and catalog entries. It is idempotent:
// records that already exist are left untouched.
func Seed(ctx context.Context, repo RepositoryManager, users []SeedUser, catalog []*Product) error {
	provider := NewUserProvider(repo.Users())

	for _, seed := range users {
		_, err := repo.Users().GetByEmail(ctx, seed.Email)
		if err == nil {
			continue
		}
		if !IsRecordNotFound(err) {
			return err
		}

		profile := &User{
			Username: seed.Username,
			Email:    seed.Email,
			Role:     seed.Role,
		}

		if _, err := provider.CreateUser(ctx, profile, seed.Password); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to seed user")
		}
	}

	existing, err := repo.Products().ListPage(ctx, 1, 1)
	if err != nil {
		return err
	}

	if existing.Total > 0 {
		return nil
	}

	for _, record := range catalog {
		if _, err := repo.Products().Create(ctx, record); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to seed product")
		}
	}

	return nil
}
