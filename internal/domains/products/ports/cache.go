package ports

import (
	"context"
	"errors"

	"github.com/finprodb/shop-api/internal/domains/products/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache holds public product lookups.
type Cache interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}
