package ports

import (
	"context"
	"errors"

	"github.com/finprodb/shop-api/internal/domains/carts/domain"
)

var (
	ErrNotFound        = errors.New("Cart item not found")
	ErrForbidden       = errors.New("Forbidden")
	ErrProductNotFound = errors.New("Product not found")
	ErrProductInactive = errors.New("Product is inactive")
)

// Repository persists cart lines.
type Repository interface {
	Save(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error)
	Get(ctx context.Context, id int64) (*domain.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID int64) (*domain.CartItem, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.CartItem, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}
