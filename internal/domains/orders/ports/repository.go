package ports

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

var ErrNotFound = errors.New("Order not found")

// Repository persists orders and their items.
type Repository interface {
	// Create inserts the order and its items atomically.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// Save writes lifecycle fields only; items are immutable after checkout.
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	GetByCode(ctx context.Context, code string) (*domain.Order, error)
	// GetByCheckoutKey returns ErrNotFound for an empty or unused key.
	GetByCheckoutKey(ctx context.Context, key string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	// List returns orders without items, newest first. A nil status lists all.
	List(ctx context.Context, status *domain.Status, page pagination.Request) ([]*domain.Order, int64, error)
	Count(ctx context.Context, status *domain.Status) (int64, error)
	SumTotal(ctx context.Context, status domain.Status) (decimal.Decimal, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*domain.Order, error)
}
