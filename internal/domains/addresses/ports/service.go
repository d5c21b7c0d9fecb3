package ports

import (
	"context"

	"github.com/finprodb/shop-api/internal/domains/addresses/domain"
)

// Service exposes address book use cases.
type Service interface {
	List(ctx context.Context, userID int64) ([]*domain.Address, error)
	Get(ctx context.Context, userID, id int64) (*domain.Address, error)
	// Default returns the user's default address or ErrNotFound.
	Default(ctx context.Context, userID int64) (*domain.Address, error)
	Create(ctx context.Context, userID int64, fields *domain.Fields) (*domain.Address, error)
	Update(ctx context.Context, userID, id int64, fields *domain.Fields) (*domain.Address, error)
	Delete(ctx context.Context, userID, id int64) error
	SetDefault(ctx context.Context, userID, id int64) (*domain.Address, error)
}
