package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestNewProductDefaultsActive(t *testing.T) {
	p, err := NewProduct(Details{Name: " Mug ", Price: price("12.50"), Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)
	assert.True(t, p.Active)
	assert.True(t, p.IsPurchasable())
}

func TestReviseValidation(t *testing.T) {
	p := &Product{Active: true}
	assert.ErrorIs(t, p.Revise(Details{Price: price("1")}), ErrNameRequired)
	assert.ErrorIs(t, p.Revise(Details{Name: "x"}), ErrPriceRequired)
	assert.ErrorIs(t, p.Revise(Details{Name: "x", Price: price("-1")}), ErrNegativePrice)
	assert.ErrorIs(t, p.Revise(Details{Name: "x", Price: price("1"), Stock: -1}), ErrNegativeStock)
}

func TestReviseKeepsActiveAndClearsCategory(t *testing.T) {
	cat := int64(7)
	inactive := false
	p, err := NewProduct(Details{Name: "Mug", Price: price("1"), Active: &inactive, CategoryID: &cat})
	require.NoError(t, err)
	require.False(t, p.Active)
	require.Equal(t, int64(7), *p.CategoryID)

	require.NoError(t, p.Revise(Details{Name: "Mug", Price: price("2")}))
	assert.False(t, p.Active)
	assert.Nil(t, p.CategoryID)
}

func TestDecrementStockFloorsAtZero(t *testing.T) {
	p := &Product{Stock: 2}
	require.NoError(t, p.DecrementStock(5))
	assert.Zero(t, p.Stock)
	assert.ErrorIs(t, p.DecrementStock(0), ErrInvalidAmount)
}

func TestSoftDeleteHidesProduct(t *testing.T) {
	p := &Product{Active: true}
	p.SoftDelete(time.Now())
	assert.True(t, p.IsDeleted())
	assert.False(t, p.IsPurchasable())
}
