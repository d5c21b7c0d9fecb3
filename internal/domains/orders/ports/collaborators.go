package ports

import (
	"context"

	addressdomain "github.com/finprodb/shop-api/internal/domains/addresses/domain"
	cartports "github.com/finprodb/shop-api/internal/domains/carts/ports"
	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	userdomain "github.com/finprodb/shop-api/internal/domains/users/domain"
)

// CartSource hands checkout the user's cart lines.
type CartSource interface {
	Lines(ctx context.Context, userID int64) ([]cartports.Line, error)
	Clear(ctx context.Context, userID int64) error
}

// AddressBook resolves shipping destinations.
type AddressBook interface {
	Get(ctx context.Context, userID, id int64) (*addressdomain.Address, error)
	Default(ctx context.Context, userID int64) (*addressdomain.Address, error)
}

// StockAdjuster lowers product stock after a settled payment.
type StockAdjuster interface {
	DecrementStock(ctx context.Context, productID int64, qty int) error
}

// EventPublisher ships order events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// UserDirectory resolves customers and approving admins for the console.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*userdomain.User, error)
	CountByRole(ctx context.Context, role userdomain.Role) (int64, error)
}

// PaymentStatusLookup returns the status name of the newest payment
// transaction for an order, or "" when none exists.
type PaymentStatusLookup interface {
	LatestStatus(ctx context.Context, orderID int64) (string, error)
}
