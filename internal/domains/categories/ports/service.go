package ports

import (
	"context"

	"github.com/finprodb/shop-api/internal/domains/categories/domain"
	"github.com/finprodb/shop-api/internal/platform/storage"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

// CategoryInput is the admin create/update payload.
type CategoryInput struct {
	Name        string
	Description string
}

// Service exposes catalog category use cases.
type Service interface {
	ListPublic(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Category], error)
	ListAdmin(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Category], error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, input CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id int64, input CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, id int64, upload *storage.Upload) (*domain.Category, error)
}
