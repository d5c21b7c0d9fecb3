package ports

import (
	"context"
	"errors"

	"github.com/finprodb/shop-api/internal/domains/categories/domain"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

var ErrNotFound = errors.New("Category not found")

// Repository persists categories. Lookups and listings skip deleted rows.
type Repository interface {
	Save(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetActive(ctx context.Context, id int64) (*domain.Category, error)
	ListActive(ctx context.Context, page pagination.Request, newestFirst bool) ([]*domain.Category, int64, error)
}
