package ports

import (
	"context"

	categorydomain "github.com/finprodb/shop-api/internal/domains/categories/domain"
	"github.com/finprodb/shop-api/internal/domains/products/domain"
	"github.com/finprodb/shop-api/internal/platform/storage"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

// CategoryLookup resolves non-deleted categories.
type CategoryLookup interface {
	Get(ctx context.Context, id int64) (*categorydomain.Category, error)
}

// Service exposes catalog product use cases.
type Service interface {
	ListPublic(ctx context.Context, filter ListFilter) (pagination.Page[*domain.Product], error)
	GetPublic(ctx context.Context, id int64) (*domain.Product, error)
	ListAdmin(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Product], error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	// Lookup returns the product even when soft-deleted.
	Lookup(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, details domain.Details) (*domain.Product, error)
	Update(ctx context.Context, id int64, details domain.Details) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, id int64, upload *storage.Upload) (*domain.Product, error)
	DecrementStock(ctx context.Context, id int64, qty int) error
}
