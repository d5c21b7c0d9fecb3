//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finprodb/shop-api/internal/domains/products/domain"
	"github.com/finprodb/shop-api/internal/domains/products/ports"
	"github.com/finprodb/shop-api/internal/platform/postgres/pgtest"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

func newProduct(t *testing.T, name string, active bool) *domain.Product {
	t.Helper()
	price := decimal.RequireFromString("19.90")
	p, err := domain.NewProduct(domain.Details{Name: name, Price: &price, Stock: 5, Active: &active})
	require.NoError(t, err)
	return p
}

func TestRepository_PublicListingAndStock(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	mug, err := repo.Save(ctx, newProduct(t, "Coffee Mug", true))
	require.NoError(t, err)
	_, err = repo.Save(ctx, newProduct(t, "Tea Mug", false))
	require.NoError(t, err)
	_, err = repo.Save(ctx, newProduct(t, "Plate", true))
	require.NoError(t, err)

	items, total, err := repo.ListPublic(ctx, ports.ListFilter{Page: pagination.Normalize(0, 10), Query: "MUG"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, mug.ID, items[0].ID)
	assert.True(t, decimal.RequireFromString("19.90").Equal(items[0].Price))

	require.NoError(t, repo.DecrementStock(ctx, mug.ID, 9))
	got, err := repo.GetActive(ctx, mug.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Stock)

	got.SoftDelete(time.Now())
	_, err = repo.Save(ctx, got)
	require.NoError(t, err)
	_, err = repo.GetActive(ctx, mug.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	_, total, err = repo.ListAdmin(ctx, pagination.Normalize(0, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
