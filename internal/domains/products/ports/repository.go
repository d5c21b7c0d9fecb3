package ports

import (
	"context"
	"errors"

	"github.com/finprodb/shop-api/internal/domains/products/domain"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

var (
	ErrNotFound         = errors.New("Product not found")
	ErrCategoryNotFound = errors.New("Category not found")
)

// ListFilter narrows the public catalog listing.
type ListFilter struct {
	Page pagination.Request
	// Query is a case-insensitive substring of the name; empty means any.
	Query      string
	CategoryID *int64
}

// Repository persists products. Get returns soft-deleted rows too; GetActive
// and the listings skip them.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	GetActive(ctx context.Context, id int64) (*domain.Product, error)
	ListPublic(ctx context.Context, filter ListFilter) ([]*domain.Product, int64, error)
	ListAdmin(ctx context.Context, page pagination.Request) ([]*domain.Product, int64, error)
	DecrementStock(ctx context.Context, id int64, qty int) error
}
