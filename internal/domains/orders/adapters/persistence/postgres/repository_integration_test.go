//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/orders/ports"
	"github.com/finprodb/shop-api/internal/platform/postgres/pgtest"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

func TestRepository_OrderLifecycle(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()
	now := time.Now()

	order, err := domain.NewOrder(3, domain.NewOrderCode(now), domain.Shipping{Address: "Jl. Sudirman 1", Phone: "0812"}, []domain.Line{
		{ProductID: 1, ProductName: "Mug", Price: decimal.RequireFromString("12.50"), Quantity: 2},
		{ProductID: 2, ProductName: "Plate", Price: decimal.RequireFromString("5"), Quantity: 1},
	}, now)
	require.NoError(t, err)
	order.CheckoutKey = "checkout-3-abc/run-1"

	created, err := repo.Create(ctx, order)
	require.NoError(t, err)
	require.Len(t, created.Items, 2)
	assert.Equal(t, domain.ApprovalPending, created.Approval)

	byKey, err := repo.GetByCheckoutKey(ctx, "checkout-3-abc/run-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byKey.ID)
	_, err = repo.GetByCheckoutKey(ctx, "unknown")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.True(t, decimal.RequireFromString("30").Equal(created.TotalAmount))

	byCode, err := repo.GetByCode(ctx, created.Code)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)
	assert.Equal(t, "Mug", byCode.Items[0].ProductName)

	require.True(t, byCode.MarkPaid(now))
	require.NoError(t, byCode.Approve(9, domain.RandomCourier{}, now))
	saved, err := repo.Save(ctx, byCode)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivering, saved.Status)
	assert.Equal(t, domain.ApprovalApproved, saved.Approval)
	assert.NotEmpty(t, saved.CourierPlate)

	delivering := domain.StatusDelivering
	list, total, err := repo.List(ctx, &delivering, pagination.Normalize(0, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Empty(t, list[0].Items)

	sum, err := repo.SumTotal(ctx, domain.StatusPaid)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
