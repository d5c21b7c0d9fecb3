package ports

import (
	"context"
	"errors"

	"github.com/finprodb/shop-api/internal/domains/payments/domain"
)

var ErrNotFound = errors.New("Payment transaction not found")

// Repository persists payment transactions.
type Repository interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	// Latest returns the newest transaction of an order.
	Latest(ctx context.Context, orderID int64) (*domain.Transaction, error)
}
